//go:build unix

package environment

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/Dicklesworthstone/winsize/pkg/model"
)

func (t *Terminal) size() (model.SizeSample, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return model.SizeSample{}, err
	}
	if ws.Xpixel > 0 && ws.Ypixel > 0 {
		return model.SizeSample{Width: int(ws.Xpixel), Height: int(ws.Ypixel)}, nil
	}
	return t.Cells(int(ws.Col), int(ws.Row)), nil
}

func (t *Terminal) watch(changed func()) func() {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-sig:
				changed()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sig)
			close(done)
		})
	}
}
