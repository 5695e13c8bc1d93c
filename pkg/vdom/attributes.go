package vdom

import (
	"strconv"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// TitleAttr sets the title attribute (named to avoid conflict with the
// Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Media attributes

// Src sets the src attribute.
func Src(src string) Attr { return attr("src", src) }

// Alt sets the alt attribute.
func Alt(alt string) Attr { return attr("alt", alt) }

// Href sets the href attribute.
func Href(href string) Attr { return attr("href", href) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaHidden sets the aria-hidden attribute.
func AriaHidden(hidden bool) Attr { return attr("aria-hidden", hidden) }

// AriaValueNow sets the aria-valuenow attribute.
func AriaValueNow(value float64) Attr { return attr("aria-valuenow", value) }

// AriaValueMin sets the aria-valuemin attribute.
func AriaValueMin(value float64) Attr { return attr("aria-valuemin", value) }

// AriaValueMax sets the aria-valuemax attribute.
func AriaValueMax(value float64) Attr { return attr("aria-valuemax", value) }

// SetAttr creates an attribute with an arbitrary key. This preserves the
// open "any string key" surface next to the typed helpers above.
func SetAttr(key string, value any) Attr { return attr(key, value) }

// Style helpers

// StyleOf creates a style property with an arbitrary CSS property name.
func StyleOf(name string, value any) StyleProp { return StyleProp{Name: name, Value: value} }

// Width sets the width style property.
func Width(value string) StyleProp { return StyleOf("width", value) }

// WidthPercent sets the width style property to "<n>%".
func WidthPercent(n int) StyleProp { return StyleOf("width", strconv.Itoa(n)+"%") }

// Height sets the height style property.
func Height(value string) StyleProp { return StyleOf("height", value) }

// BackgroundColor sets the backgroundColor style property.
func BackgroundColor(color string) StyleProp { return StyleOf("backgroundColor", color) }

// Color sets the color style property.
func Color(color string) StyleProp { return StyleOf("color", color) }

// DisplayMode sets the display style property (named to avoid conflict
// with the display package).
func DisplayMode(mode string) StyleProp { return StyleOf("display", mode) }

// Margin sets the margin style property.
func Margin(value string) StyleProp { return StyleOf("margin", value) }

// Padding sets the padding style property.
func Padding(value string) StyleProp { return StyleOf("padding", value) }

// FontSize sets the fontSize style property.
func FontSize(value string) StyleProp { return StyleOf("fontSize", value) }

// TextAlign sets the textAlign style property.
func TextAlign(value string) StyleProp { return StyleOf("textAlign", value) }
