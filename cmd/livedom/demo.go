package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/livedom-dev/livedom/pkg/animate"
	"github.com/livedom-dev/livedom/pkg/display"
	"github.com/livedom-dev/livedom/pkg/vdom"
	"github.com/livedom-dev/livedom/pkg/widget"
)

func demoCmd() *cobra.Command {
	var (
		url      string
		interval time.Duration
		steps    int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Stream two animated progress bars to a sink server",
		Long: `Stream a demo to a running sink server.

Two progress bars advance at different rates on independent display
handles, sharing one connection. Watch the documents at
/displays/{id} on the server while the demo runs.

Examples:
  livedom demo
  livedom demo --url=ws://localhost:7420/ws --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(url, interval, steps)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "ws://localhost:7420/ws", "Sink server websocket URL")
	cmd.Flags().DurationVarP(&interval, "interval", "i", 500*time.Millisecond, "Time between frames")
	cmd.Flags().IntVarP(&steps, "steps", "n", 100, "Number of frames per bar")

	return cmd
}

func runDemo(url string, interval time.Duration, steps int) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sink, err := display.DialSink(ctx, url)
	if err != nil {
		return err
	}
	defer sink.Close()

	ch := display.NewChannel(sink)

	printBanner()
	info("connected to %s", url)

	fast, err := startBar(ctx, ch, "download", widget.FilledColor("#3b82f6"))
	if err != nil {
		return err
	}
	slow, err := startBar(ctx, ch, "verify", widget.FilledColor("#22c55e"))
	if err != nil {
		return err
	}
	info("displays: %s, %s", fast.ID(), slow.ID())

	errCh := make(chan error, 2)
	go func() {
		errCh <- animateBar(ctx, fast, "download", interval, steps, 3,
			widget.FilledColor("#3b82f6"))
	}()
	go func() {
		errCh <- animateBar(ctx, slow, "verify", interval, steps, 1,
			widget.FilledColor("#22c55e"))
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}

	success("demo complete")
	return nil
}

// startBar creates one labeled progress display at zero percent.
func startBar(ctx context.Context, ch *display.Channel, label string, opts ...widget.Option) (*display.Handle, error) {
	view, err := barView(label, 0, opts...)
	if err != nil {
		return nil, err
	}
	return ch.Display(ctx, view)
}

// animateBar advances a bar by stride percent per tick until it
// reaches 100 or the context is canceled.
func animateBar(ctx context.Context, h *display.Handle, label string, interval time.Duration, steps, stride int, opts ...widget.Option) error {
	clock := animate.NewRealClock(interval)

	return animate.Loop(ctx, clock, func(frame int) error {
		percent := (frame + 1) * stride * 100 / steps
		if percent > 100 {
			percent = 100
		}

		view, err := barView(label, percent, opts...)
		if err != nil {
			return err
		}
		if err := h.Update(ctx, view); err != nil {
			return err
		}

		if percent == 100 {
			return animate.Stop
		}
		return nil
	})
}

// barView builds the document for one labeled progress bar.
func barView(label string, percent int, opts ...widget.Option) (*vdom.Element, error) {
	bar, err := widget.Progress(float64(percent), 100, opts...)
	if err != nil {
		return nil, err
	}
	return vdom.Div(
		vdom.Span(vdom.Text(fmt.Sprintf("%s %d%%", label, percent))),
		bar,
	), nil
}
