package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setFlags(t *testing.T, inFile string, numEntities int, minSupport float64, maxGap int) {
	t.Helper()
	*inFileFlag = inFile
	*numEntitiesFlag = numEntities
	*minSupportFlag = minSupport
	*maxGapFlag = maxGap
	t.Cleanup(func() {
		*inFileFlag = ""
		*numEntitiesFlag = 0
		*minSupportFlag = 0
		*maxGapFlag = 0
	})
}

func TestValidateFlagsRequiresInputFile(t *testing.T) {
	setFlags(t, "", 1, 0.5, 10)
	_, err := validateFlags(nil)
	assert.Error(t, err)
}

func TestValidateFlagsRejectsNonPositiveEntityCount(t *testing.T) {
	setFlags(t, "in.txt", 0, 0.5, 10)
	_, err := validateFlags(nil)
	assert.Error(t, err)
}

func TestValidateFlagsRejectsSupportOutOfRange(t *testing.T) {
	setFlags(t, "in.txt", 5, 1.5, 10)
	_, err := validateFlags(nil)
	assert.Error(t, err)
}

func TestValidateFlagsRejectsNegativeMaxGap(t *testing.T) {
	setFlags(t, "in.txt", 5, 0.5, -1)
	_, err := validateFlags(nil)
	assert.Error(t, err)
}

func TestValidateFlagsRejectsExtraPositionalArgs(t *testing.T) {
	setFlags(t, "in.txt", 5, 0.5, 10)
	_, err := validateFlags([]string{"out1.txt", "out2.txt"})
	assert.Error(t, err)
}

func TestValidateFlagsUsesGivenOutputPath(t *testing.T) {
	setFlags(t, "in.txt", 5, 0.5, 10)
	out, err := validateFlags([]string{"custom-out.txt"})
	assert.NoError(t, err)
	assert.Equal(t, "custom-out.txt", out)
}

func TestValidateFlagsDerivesDefaultOutputPath(t *testing.T) {
	setFlags(t, "/data/entities.txt", 5, 0.5, 10)
	out, err := validateFlags(nil)
	assert.NoError(t, err)
	assert.Equal(t, "/data/entities-support-0.5-gap-10.txt", out)
}

func TestDefaultOutputPathStripsExtension(t *testing.T) {
	out := defaultOutputPath("/data/entities.txt", 0.25, 5)
	assert.Equal(t, "/data/entities-support-0.25-gap-5.txt", out)
}

func TestDefaultOutputPathHandlesNoExtension(t *testing.T) {
	out := defaultOutputPath("/data/entities", 1, 0)
	assert.Equal(t, "/data/entities-support-1-gap-0.txt", out)
}

func TestFilepathExtIgnoresDotsInDirectoryNames(t *testing.T) {
	assert.Equal(t, ".txt", filepathExt("/data/v1.2/entities.txt"))
	assert.Equal(t, "", filepathExt("/data/v1.2/entities"))
}
