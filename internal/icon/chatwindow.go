package icon

// CanvasSize is the logical width and height of the icon canvas.
const CanvasSize = 128

// CornerRatio is the background corner radius as a fraction of the canvas,
// matching the rounded-square app icon shape.
const CornerRatio = 0.225

const (
	GradientID = "bgGradient"
	ShadowID   = "shadow"
)

// Palette.
const (
	blueTop     = "#007AFF"
	blueBottom  = "#0051D5"
	windowWhite = "#FFFFFF"
	headerGray  = "#F8F9FA"
	bubbleGray  = "#E9ECEF"
	dotRed      = "#FF5F57"
	dotYellow   = "#FFBD2E"
	dotGreen    = "#28CA42"
)

// Window geometry shared by the body, header and corner fix.
const (
	windowX      = 20
	windowY      = 24
	windowW      = 88
	windowH      = 80
	windowRadius = 8
	headerH      = 20
)

// ChatWindow builds the chat-window icon: a gradient rounded square holding
// a white window with a header bar, three window-control dots and three
// message bubbles.
func ChatWindow() *Document {
	doc := NewDocument(CanvasSize)
	svg := doc.Root

	defs := svg.Add("defs")

	grad := defs.Add("linearGradient")
	grad.Set("id", GradientID)
	grad.Set("x1", "0%")
	grad.Set("y1", "0%")
	grad.Set("x2", "0%")
	grad.Set("y2", "100%")
	grad.Add("stop").Set("offset", "0%").Set("stop-color", blueTop)
	grad.Add("stop").Set("offset", "100%").Set("stop-color", blueBottom)

	filter := defs.Add("filter")
	filter.Set("id", ShadowID)
	filter.Set("x", "-50%")
	filter.Set("y", "-50%")
	filter.Set("width", "200%")
	filter.Set("height", "200%")
	filter.Add("feDropShadow").
		SetNum("dx", 0).
		SetNum("dy", 2).
		SetNum("stdDeviation", 4).
		SetNum("flood-opacity", 0.2).
		Set("flood-color", "#000")

	bg := svg.Add("rect")
	bg.SetNum("width", CanvasSize)
	bg.SetNum("height", CanvasSize)
	bg.SetNum("rx", CanvasSize*CornerRatio)
	bg.SetNum("ry", CanvasSize*CornerRatio)
	bg.Set("fill", "url(#"+GradientID+")")

	window := roundedRect(svg, windowX, windowY, windowW, windowH, windowRadius, windowWhite)
	window.Set("filter", "url(#"+ShadowID+")")

	// An SVG rect has a single corner radius, so the header is drawn fully
	// rounded and a flat strip squares off its bottom corners.
	roundedRect(svg, windowX, windowY, windowW, headerH, windowRadius, headerGray)
	fix := svg.Add("rect")
	fix.SetNum("x", windowX)
	fix.SetNum("y", windowY+headerH-windowRadius)
	fix.SetNum("width", windowW)
	fix.SetNum("height", windowRadius)
	fix.Set("fill", headerGray)

	for i, c := range []string{dotRed, dotYellow, dotGreen} {
		dot := svg.Add("circle")
		dot.SetNum("cx", float64(30+8*i))
		dot.SetNum("cy", 34)
		dot.SetNum("r", 2)
		dot.Set("fill", c)
	}

	roundedRect(svg, 28, 52, 36, 12, 6, blueTop).SetNum("opacity", 0.8)
	roundedRect(svg, 72, 68, 28, 12, 6, bubbleGray)
	roundedRect(svg, 28, 84, 44, 12, 6, blueTop).SetNum("opacity", 0.8)

	return doc
}

func roundedRect(parent *Element, x, y, w, h, r float64, fill string) *Element {
	rect := parent.Add("rect")
	rect.SetNum("x", x)
	rect.SetNum("y", y)
	rect.SetNum("width", w)
	rect.SetNum("height", h)
	rect.SetNum("rx", r)
	rect.SetNum("ry", r)
	rect.Set("fill", fill)
	return rect
}
