package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"workorder/internal/model"
)

// Patcher reads and rewrites the marker line of a target configuration file.
type Patcher struct {
	Marker    string
	OnMissing MissingMarkerPolicy
	Decode    DecodePolicy
}

// New creates a Patcher for the given marker.
func New(marker string, onMissing MissingMarkerPolicy, decode DecodePolicy) *Patcher {
	return &Patcher{
		Marker:    marker,
		OnMissing: onMissing,
		Decode:    decode,
	}
}

// document is a target file split into raw lines, terminators included.
type document struct {
	info  os.FileInfo
	lines [][]byte
	match int // index of the first marker line, -1 if none
}

// Preview returns the value after the first '=' on the first marker line.
// The returned Preview carries the state even when an error is returned.
func (p *Patcher) Preview(path string) (model.Preview, error) {
	pv := model.Preview{Path: path}

	doc, err := p.load(path)
	if err != nil {
		pv.State = stateFor(err)
		pv.Err = err
		return pv, err
	}
	pv.Size = doc.info.Size()
	pv.ModTime = doc.info.ModTime()

	if doc.match < 0 {
		pv.State = model.PreviewMarkerNotFound
		return pv, fmt.Errorf("%w in %s", model.ErrMarkerNotFound, path)
	}

	text := strings.TrimSpace(p.text(doc.lines[doc.match]))
	_, value, _ := strings.Cut(text, "=")

	pv.State = model.PreviewOK
	pv.Value = value
	pv.LineNumber = doc.match + 1
	pv.Context = model.GetLineContext(p.textLines(doc.lines), pv.LineNumber)
	return pv, nil
}

// Commit rewrites the first marker line to marker+value. All other lines are
// written back byte for byte. A symlinked path is written through to its target.
func (p *Patcher) Commit(path, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return model.ErrInvalidValue
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	doc, err := p.load(path)
	if err != nil {
		return err
	}

	if doc.match >= 0 {
		doc.lines[doc.match] = []byte(p.Marker + value + terminator(doc.lines[doc.match]))
	} else {
		switch p.OnMissing {
		case MissingFail:
			return fmt.Errorf("%w in %s", model.ErrMarkerNotFound, path)
		case MissingAppend:
			if n := len(doc.lines); n > 0 && !bytes.HasSuffix(doc.lines[n-1], []byte("\n")) {
				doc.lines[n-1] = append(doc.lines[n-1], '\n')
			}
			doc.lines = append(doc.lines, []byte(p.Marker+value+"\n"))
		}
	}

	return model.WriteFileAtomic(path, bytes.Join(doc.lines, nil), doc.info.Mode().Perm())
}

func (p *Patcher) load(path string) (*document, error) {
	if path == "" {
		return nil, model.ErrFileMissing
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err == nil || os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrFileMissing, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", model.ErrIO, path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", model.ErrIO, path, err)
	}
	if p.Decode == DecodeStrict && !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", model.ErrMalformed, path)
	}

	doc := &document{info: info, lines: splitLines(data), match: -1}
	key := strings.TrimSpace(p.Marker)
	for i, line := range doc.lines {
		if strings.HasPrefix(strings.TrimSpace(p.text(line)), key) {
			doc.match = i
			break
		}
	}
	return doc, nil
}

func (p *Patcher) text(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}

func (p *Patcher) textLines(raw [][]byte) []string {
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRight(p.text(l), "\r\n")
	}
	return lines
}

// splitLines splits data after each '\n', keeping the terminators.
func splitLines(data []byte) [][]byte {
	lines := bytes.SplitAfter(data, []byte("\n"))
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	return lines
}

func terminator(line []byte) string {
	if bytes.HasSuffix(line, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func stateFor(err error) model.PreviewState {
	switch {
	case err == nil:
		return model.PreviewOK
	case errors.Is(err, model.ErrFileMissing):
		return model.PreviewFileMissing
	case errors.Is(err, model.ErrMarkerNotFound):
		return model.PreviewMarkerNotFound
	default:
		return model.PreviewError
	}
}
