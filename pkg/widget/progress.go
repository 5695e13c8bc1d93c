// Package widget provides prebuilt element constructors for common
// live-output widgets, starting with the horizontal progress bar.
package widget

import (
	"errors"
	"math"

	"github.com/livedom-dev/livedom/pkg/vdom"
)

// ErrZeroMaximum is returned by Progress when maximum is zero and the
// fill percentage is undefined.
var ErrZeroMaximum = errors.New("widget: progress maximum is zero")

// Default bar appearance.
const (
	DefaultFilledColor   = "#3b82f6"
	DefaultUnfilledColor = "#e5e7eb"
	DefaultBarHeight     = "20px"
)

// Option configures a progress bar.
type Option func(*barConfig)

type barConfig struct {
	filledColor   string
	unfilledColor string
	height        string
}

// FilledColor sets the color of the completed segment.
func FilledColor(color string) Option {
	return func(c *barConfig) {
		c.filledColor = color
	}
}

// UnfilledColor sets the color of the remaining segment.
func UnfilledColor(color string) Option {
	return func(c *barConfig) {
		c.unfilledColor = color
	}
}

// BarHeight sets the CSS height of both segments.
func BarHeight(height string) Option {
	return func(c *barConfig) {
		c.height = height
	}
}

func defaultBarConfig() barConfig {
	return barConfig{
		filledColor:   DefaultFilledColor,
		unfilledColor: DefaultUnfilledColor,
		height:        DefaultBarHeight,
	}
}

// Box returns an inline-block div spanning widthPercent of its
// container, filled with the given color.
//
// widthPercent is used as-is: callers clamp to [0, 100] before calling,
// and callers that start from a fractional percentage truncate toward
// zero first (see Percent).
func Box(widthPercent int, color string) *vdom.Element {
	return box(widthPercent, color, DefaultBarHeight)
}

func box(widthPercent int, color, height string) *vdom.Element {
	return vdom.Div(
		vdom.WidthPercent(widthPercent),
		vdom.BackgroundColor(color),
		vdom.Height(height),
		vdom.DisplayMode("inline-block"),
	)
}

// Percent converts value/maximum to a whole percentage, truncating
// toward zero. Returns ErrZeroMaximum when maximum is zero.
func Percent(value, maximum float64) (int, error) {
	if maximum == 0 {
		return 0, ErrZeroMaximum
	}
	return int(math.Trunc(100 * value / maximum)), nil
}

// Progress returns a div wrapping two boxes: value/maximum of the bar
// in the filled color and the remainder in the unfilled color. The
// second box is always 100 minus the filled percentage, never
// recomputed independently, so the two widths sum to exactly 100 and
// the bar can neither overflow nor underfill its container.
//
// Behavior for value outside [0, maximum] is the caller's
// responsibility: no clamping is applied, and a negative value or a
// value above maximum produces widths outside [0, 100].
func Progress(value, maximum float64, opts ...Option) (*vdom.Element, error) {
	cfg := defaultBarConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	percent, err := Percent(value, maximum)
	if err != nil {
		return nil, err
	}

	return vdom.Div(
		box(percent, cfg.filledColor, cfg.height),
		box(100-percent, cfg.unfilledColor, cfg.height),
	), nil
}
