package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ffmpegSource runs an ffmpeg process that transcodes its input into an
// MJPEG stream on a pipe, and decodes one JPEG per Next call. Decoding
// sequentially off the pipe preserves the stream's frame order.
type ffmpegSource struct {
	cancel    func()
	ctx       context.Context
	pipe      *io.PipeReader
	ffmpegErr atomic.Value
	workers   sync.WaitGroup

	mu sync.Mutex
}

func newFFmpegSource(source string, inputArgs map[string]interface{}) (Source, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrOpenFailure)
	}

	outArgs := map[string]interface{}{
		"format": "image2pipe",
		"vcodec": "mjpeg",
	}

	cancelableCtx, cancel := context.WithCancel(context.Background())

	in, out := io.Pipe()
	src := &ffmpegSource{
		cancel: cancel,
		ctx:    cancelableCtx,
		pipe:   in,
	}

	src.workers.Add(1)
	go func() {
		defer src.workers.Done()

		stream := ffmpeg.Input(source, inputArgs).Output("pipe:", outArgs)
		stream.Context = cancelableCtx

		err := stream.WithOutput(out).Silent(true).Run()
		if err != nil && cancelableCtx.Err() == nil {
			src.ffmpegErr.Store(err)
		}
		// Closing the writer makes a pending jpeg.Decode return, with EOF
		// when the stream simply ended.
		out.CloseWithError(io.EOF)
	}()

	return src, nil
}

func (s *ffmpegSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ctx.Err(); err != nil {
		return nil, io.EOF
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := jpeg.Decode(s.pipe)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrClosedPipe) {
			if ffErr := s.ffmpegErr.Load(); ffErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrOpenFailure, ffErr)
			}
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	return img, nil
}

func (s *ffmpegSource) Close() error {
	s.cancel()
	s.pipe.CloseWithError(io.ErrClosedPipe)
	s.workers.Wait()
	return nil
}
