package procmeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/mrzor/proton-handler/internal/procscan"
)

// Defaults for NewReader.
const (
	DefaultProcRoot    = "/proc"
	DefaultReadTimeout = 2 * time.Second
)

// ErrNoAttributes is returned when a process exposes an empty environ or cmdline,
// as kernel threads and zombies do.
var ErrNoAttributes = errors.New("no environment or command line available")

// Reader reads candidate attributes from a procfs tree.
type Reader struct {
	procRoot string
	timeout  time.Duration
}

// NewReader creates a Reader. Zero values select DefaultProcRoot and DefaultReadTimeout.
func NewReader(procRoot string, timeout time.Duration) *Reader {
	if procRoot == "" {
		procRoot = DefaultProcRoot
	}
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &Reader{procRoot: procRoot, timeout: timeout}
}

// Result is the outcome of reading one candidate.
type Result struct {
	Handle     procscan.Handle
	Attributes *Attributes
	Issues     []string
	Err        error
}

type rawBlobs struct {
	environ []byte
	cmdline []byte
	err     error
}

// Read reads and normalizes the attributes of one process.
// The read is abandoned once the Reader's timeout or ctx expires.
func (r *Reader) Read(ctx context.Context, h procscan.Handle) (*Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reading attributes of PID %d: %w", h.PID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// procfs reads cannot be interrupted; the buffered channel lets a
	// stuck read finish in the background after we give up on it.
	done := make(chan rawBlobs, 1)
	go func() {
		done <- r.readBlobs(h.PID)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("reading attributes of PID %d: %w", h.PID, ctx.Err())
	case blobs := <-done:
		if blobs.err != nil {
			return nil, blobs.err
		}
		attrs := NewAttributes(h, blobs.environ, blobs.cmdline)
		if attrs.Empty() {
			return nil, fmt.Errorf("PID %d: %w", h.PID, ErrNoAttributes)
		}
		return attrs, nil
	}
}

func (r *Reader) readBlobs(pid int32) rawBlobs {
	dir := filepath.Join(r.procRoot, strconv.Itoa(int(pid)))

	environ, err := os.ReadFile(filepath.Join(dir, "environ"))
	if err != nil {
		return rawBlobs{err: fmt.Errorf("reading environ of PID %d: %w", pid, err)}
	}

	cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil {
		return rawBlobs{err: fmt.Errorf("reading cmdline of PID %d: %w", pid, err)}
	}

	return rawBlobs{environ: environ, cmdline: cmdline}
}

// ReadAll reads every handle concurrently and returns results in input order.
// Outcomes are also recorded in m when it is non-nil.
func (r *Reader) ReadAll(ctx context.Context, handles []procscan.Handle, m *Manager) []Result {
	if m == nil {
		m = NewManager()
	}

	var wg conc.WaitGroup
	for _, h := range handles {
		h := h
		wg.Go(func() {
			attrs, err := r.Read(ctx, h)
			if err != nil {
				m.SetError(h.PID, err)
				return
			}
			m.Set(h.PID, attrs)
			m.AddIssues(h.PID, attrs.issues())
		})
	}
	wg.Wait()

	results := make([]Result, len(handles))
	for i, h := range handles {
		results[i] = Result{
			Handle:     h,
			Attributes: m.Get(h.PID),
			Issues:     m.GetIssues(h.PID),
			Err:        m.GetError(h.PID),
		}
	}
	return results
}
