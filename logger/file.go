package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileDateLayout = "2006-01-02"

// dailyFile appends to frtu-<date>.log and switches files when the local
// date changes or the current file grows past maxSize.
type dailyFile struct {
	dir     string
	maxSize int64
	now     func() time.Time

	mu   sync.Mutex
	day  string
	f    *os.File
	size int64
}

func openDailyFile(dir string, maxSize int64) (*dailyFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	d := &dailyFile{dir: dir, maxSize: maxSize, now: time.Now}
	if err := d.open(d.now().Format(fileDateLayout)); err != nil {
		return nil, err
	}
	return d, nil
}

func logFileName(dir, day string) string {
	return filepath.Join(dir, fmt.Sprintf("frtu-%s.log", day))
}

func (d *dailyFile) open(day string) error {
	f, err := os.OpenFile(logFileName(d.dir, day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	d.f, d.day, d.size = f, day, info.Size()
	return nil
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return 0, os.ErrClosed
	}

	day := d.now().Format(fileDateLayout)
	switch {
	case day != d.day:
		d.f.Close()
		if err := d.open(day); err != nil {
			d.f = nil
			return 0, err
		}
	case d.maxSize > 0 && d.size+int64(len(p)) > d.maxSize:
		d.f.Close()
		current := logFileName(d.dir, d.day)
		rolled := strings.TrimSuffix(current, ".log") + fmt.Sprintf("-%d.log", d.now().Unix())
		if err := os.Rename(current, rolled); err != nil {
			fmt.Fprintf(os.Stderr, "logger: roll %s: %v\n", current, err)
		}
		if err := d.open(d.day); err != nil {
			d.f = nil
			return 0, err
		}
	}

	n, err := d.f.Write(p)
	d.size += int64(n)
	return n, err
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// pruneLoop removes log files older than maxAge days, once at start and then
// hourly until done is closed.
func pruneLoop(dir string, maxAge int, done <-chan struct{}) {
	if maxAge <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		pruneOld(dir, time.Duration(maxAge)*24*time.Hour, time.Now())
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

func pruneOld(dir string, maxAge time.Duration, now time.Time) int {
	files, _ := filepath.Glob(filepath.Join(dir, "frtu-*.log"))
	removed := 0
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if os.Remove(file) == nil {
				removed++
			}
		}
	}
	return removed
}
