package board

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

type DoubtLog struct {
	*List[model.Doubt]
}

func NewDoubtLog(s *store.RecordStore) *DoubtLog {
	return &DoubtLog{List: NewList[model.Doubt](s)}
}

// Add records a doubt with the given initial status; an empty status means
// Unresolved.
func (d *DoubtLog) Add(ctx context.Context, sess *session.Session, title, description string, status model.DoubtStatus) (model.Doubt, error) {
	doubt, err := model.NewDoubt(title, description, status)
	if err != nil {
		return model.Doubt{}, err
	}
	return doubt, d.Append(ctx, sess, doubt)
}

// Resolve marks the selected unresolved doubts as resolved. There is no way
// back to Unresolved.
func (d *DoubtLog) Resolve(ctx context.Context, sess *session.Session) (int, error) {
	return d.ApplySelected(ctx, sess, func(doubt *model.Doubt) bool {
		if doubt.Status != model.DoubtUnresolved {
			return false
		}
		doubt.Status = model.DoubtResolved
		return true
	})
}

// ExportSelected writes each selected doubt to its own text file in dir and
// returns the paths written. Exported doubts are deselected.
func (d *DoubtLog) ExportSelected(sess *session.Session, dir string) ([]string, error) {
	indices := d.Selected(sess)
	if len(indices) == 0 {
		return nil, ErrNothingSelected
	}
	items, err := d.Items(sess)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	for _, index := range indices {
		if index >= len(items) {
			continue
		}
		path := exportPath(dir, items[index].Title)
		if err := os.WriteFile(path, []byte(formatDoubt(items[index])), 0o644); err != nil {
			return paths, fmt.Errorf("export %q: %w", items[index].Title, err)
		}
		paths = append(paths, path)
		sess.Deselect(d.category, index)
	}
	return paths, nil
}

func formatDoubt(doubt model.Doubt) string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nStatus: %s\n", doubt.Title, doubt.Description, doubt.Status)
}

// Slug keeps letters and digits, turns everything else into underscores and
// trims underscores from both ends.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range title {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func exportPath(dir, title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	slug := Slug(title)
	if slug == "" {
		return filepath.Join(dir, "doubt_"+suffix+".txt")
	}
	path := filepath.Join(dir, slug+".txt")
	if _, err := os.Stat(path); err == nil {
		return filepath.Join(dir, slug+"_"+suffix+".txt")
	}
	return path
}

// ReadDoubtFile parses an exported doubt. The description may span several
// lines up to the Status line. The result is always unresolved.
func ReadDoubtFile(path string) (model.Doubt, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Doubt{}, err
	}
	defer f.Close()

	var title string
	var description []string
	inDescription := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "Title:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
			inDescription = false
		case strings.HasPrefix(line, "Description:"):
			description = append(description[:0], strings.TrimSpace(strings.TrimPrefix(line, "Description:")))
			inDescription = true
		case strings.HasPrefix(line, "Status:"):
			inDescription = false
		case inDescription:
			description = append(description, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Doubt{}, err
	}
	return model.NewDoubt(title, strings.Join(description, "\n"), model.DoubtUnresolved)
}
