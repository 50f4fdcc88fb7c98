package tirpio

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"

	"github.com/tirpclo/tirpclo/coincidence"
	"github.com/tirpclo/tirpclo/seqbuild"
)

const headerPrefix = "startToncepts"
const countPrefix = "numberOfEntities"

// ReadEntities parses the startToncepts/numberOfEntities input format at
// path into one EntityRecord per described entity, in file order. Grounded
// on original_source/tirpclo/stis2seq.py::transform_input_file_to_seq_db,
// restructured to hand off sequence-building to package seqbuild rather
// than building a SequenceDB directly.
func ReadEntities(ctx context.Context, path string) ([]seqbuild.EntityRecord, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, ErrInputMissing(path)
	}
	defer f.Close(ctx) // nolint: errcheck

	scanner := bufio.NewScanner(f.Reader(ctx))
	lineNo := 0

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			return scanner.Text(), true
		}
		return "", false
	}

	line, ok := nextLine()
	for ok && !strings.HasPrefix(line, headerPrefix) {
		line, ok = nextLine()
	}
	if !ok {
		return nil, ErrMalformedInput(path, lineNo, "missing "+headerPrefix+" header")
	}

	line, ok = nextLine()
	if !ok || !strings.HasPrefix(line, countPrefix) {
		return nil, ErrMalformedInput(path, lineNo, "expected "+countPrefix+" line")
	}

	var entities []seqbuild.EntityRecord
	for {
		lineA, ok := nextLine()
		if !ok {
			break
		}
		if lineA == "" {
			continue
		}

		lineB, ok := nextLine()
		if !ok {
			return nil, ErrMalformedInput(path, lineNo, "entity missing STI line")
		}

		entityID := splitFirst(lineA, ",", ";")
		stis, err := parseSTIs(lineB)
		if err != nil {
			return nil, ErrMalformedInput(path, lineNo, err.Error())
		}
		entities = append(entities, seqbuild.EntityRecord{Entity: entityID, STIs: stis})
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, ErrMalformedInput(path, lineNo, err.Error())
	}

	return entities, nil
}

func splitFirst(s string, seps ...string) string {
	cut := len(s)
	for _, sep := range seps {
		if i := strings.Index(s, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

func parseSTIs(line string) ([]*coincidence.STI, error) {
	var stis []*coincidence.STI
	for _, tok := range strings.Split(line, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		fields := strings.Split(tok, ",")
		if len(fields) != 3 {
			return nil, &parseErr{"malformed STI tuple: " + tok}
		}
		start, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, &parseErr{"non-integer start time: " + fields[0]}
		}
		finish, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, &parseErr{"non-integer finish time: " + fields[1]}
		}
		symbol, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, &parseErr{"non-integer symbol: " + fields[2]}
		}
		if finish < start {
			return nil, &parseErr{"STI finish before start: " + tok}
		}
		stis = append(stis, &coincidence.STI{StartTime: start, FinishTime: finish, Symbol: symbol})
	}
	return stis, nil
}

type parseErr struct{ msg string }

func (e *parseErr) Error() string { return e.msg }
