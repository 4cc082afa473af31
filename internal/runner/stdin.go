package runner

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// startStdinToggle reads single keypresses from stdin and toggles the pauser
// on Enter or Space. It returns a cleanup function that restores the
// terminal. If stdin is not a terminal (piped input, CI), it returns a nil
// pauser and a no-op cleanup.
func startStdinToggle(simple bool) (pauser *scanner.Pauser, cleanup func()) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		if !simple {
			fmt.Fprintf(os.Stderr, "[!] Could not enable raw terminal: %v\n", err)
		}
		return nil, func() {}
	}

	// MakeRaw disables OPOST which stops \n → \r\n translation and breaks
	// progress bar alignment. Re-enable it; only raw input is needed.
	fixOutputProcessing(fd)

	pauser = scanner.NewPauser()

	cleanup = func() {
		_ = term.Restore(fd, oldState)
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				if err == io.EOF {
					return
				}
				return
			}
			if n == 0 {
				continue
			}

			key := buf[0]

			// Ctrl+C (0x03): restore the terminal and re-send SIGINT so the
			// normal signal handler chain fires.
			if key == 0x03 {
				_ = term.Restore(fd, oldState)
				sendInterrupt()
				return
			}

			if key == '\r' || key == '\n' || key == ' ' {
				nowPaused := pauser.Toggle()
				if !simple {
					if nowPaused {
						fmt.Fprintf(os.Stderr, "\r\033[K[*] Scan PAUSED — press Enter or Space to resume\n")
					} else {
						fmt.Fprintf(os.Stderr, "\r\033[K[*] Scan RESUMED\n")
					}
				}
			}
		}
	}()

	return pauser, cleanup
}
