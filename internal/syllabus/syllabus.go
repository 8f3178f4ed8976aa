package syllabus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
)

var ErrUnknownSubject = errors.New("unknown subject")

var Subjects = []string{
	"ENGINEERING WORKSHOP",
	"ENGINEERING CHEMISTRY",
	"ENGLISH",
	"MATHS",
	"ENVIRONMENTAL SCIENCE",
	"EITK",
	"PPS",
}

// Library stores one uploaded syllabus file per subject in a directory.
type Library struct {
	dir   string
	start func(path string) error
}

func NewLibrary(dir string) *Library {
	return &Library{dir: dir, start: openWithSystem}
}

func (l *Library) Dir() string {
	return l.dir
}

// Upload copies src into the library as <subject><ext>, replacing any
// earlier upload with the same extension.
func (l *Library) Upload(subject, src string) (string, error) {
	if !known(subject) {
		return "", fmt.Errorf("%q: %w", subject, ErrUnknownSubject)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := filepath.Join(l.dir, subject+filepath.Ext(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

// Files lists the uploaded file names in name order.
func (l *Library) Files() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Open hands an uploaded file to the platform's default viewer.
func (l *Library) Open(name string) error {
	path := filepath.Join(l.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return l.start(path)
}

func known(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

func openWithSystem(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
