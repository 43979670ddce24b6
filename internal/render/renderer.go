// Package render draws board snapshots as PNG images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/chess-duel/internal/chess"
)

type MoveHighlight struct {
	From chess.Coordinate
	To   chess.Coordinate
}

type RenderOptions struct {
	Highlight *MoveHighlight
	// Check marks the square of a king that is in check.
	Check     *chess.Coordinate
	HUDHeader string
	HUDTurn   string
	// SquareSize in pixels; defaults to 72.
	SquareSize int
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *chess.Board, opts RenderOptions) ([]byte, error)
}

type svgBoardRenderer struct {
	face font.Face
}

func NewSVGBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{face: basicfont.Face7x13}
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board *chess.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}

	squareSize := opts.SquareSize
	if squareSize <= 0 {
		squareSize = 72
	}
	const (
		sideMargin    = 36
		topMargin     = 96
		bottomMargin  = 36
		titleHeight   = 32
		turnHeight    = 26
		gapPanels     = 8
		gapToBoard    = 14
		panelRadius   = 10
		paddingX      = 20
		titleMinWidth = 200
		turnMinWidth  = 120
		shadowOffsetY = 5
	)

	boardSize := squareSize * chess.Size
	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	boardOrigin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(boardOrigin.X, boardOrigin.Y, boardOrigin.X+boardSize, boardOrigin.Y+boardSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	hud := hudLayout{
		radius:        panelRadius,
		titleHeight:   titleHeight,
		turnHeight:    turnHeight,
		gapPanels:     gapPanels,
		gapToBoard:    gapToBoard,
		paddingX:      paddingX,
		titleMinWidth: titleMinWidth,
		turnMinWidth:  turnMinWidth,
		shadowOffsetY: shadowOffsetY,
	}
	drawHUD(img, r.face, opts, material(board), boardRect, hud)
	drawBoardShadow(img, boardRect)
	drawSquares(img, squareSize, boardOrigin)
	if opts.Check != nil && opts.Check.Valid() {
		drawSquareOverlay(img, *opts.Check, squareSize, boardOrigin, checkHighlightColor)
	}
	if err := drawPieces(ctx, img, board, squareSize, boardOrigin); err != nil {
		return nil, err
	}
	drawHighlight(img, board, opts.Highlight, squareSize, boardOrigin)
	drawCoordinates(img, r.face, squareSize, boardOrigin, sideMargin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return pngBuf.Bytes(), nil
}

var (
	backgroundColor           = color.RGBA{R: 20, G: 22, B: 32, A: 255}
	lightSquare               = color.RGBA{233, 207, 163, 255}
	darkSquare                = color.RGBA{187, 136, 96, 255}
	checkHighlightColor       = color.NRGBA{R: 230, G: 60, B: 60, A: 150}
	whiteMoveHighlightFill    = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveHighlightArrow   = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	neutralMoveHighlightArrow = color.NRGBA{R: 182, G: 184, B: 190, A: 140}
	hudPanelColor             = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor         = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor            = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary            = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor          = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor          = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor       = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

var pieceValue = map[chess.Kind]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

// material returns White's material minus Black's.
func material(board *chess.Board) int {
	diff := 0
	for r := 0; r < chess.Size; r++ {
		for f := 0; f < chess.Size; f++ {
			t := board[r][f]
			switch t.Control {
			case chess.White:
				diff += pieceValue[t.Piece.Kind]
			case chess.Black:
				diff -= pieceValue[t.Piece.Kind]
			}
		}
	}
	return diff
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+8,
		boardRect.Max.X+10,
		boardRect.Max.Y+12,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point) {
	for rank := 0; rank < chess.Size; rank++ {
		for file := 0; file < chess.Size; file++ {
			c := chess.Coordinate{Rank: rank, File: file}
			imagedraw.Draw(dst, squareRect(c, squareSize, origin), image.NewUniform(squareColor(c)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(ctx context.Context, dst imagedraw.Image, board *chess.Board, squareSize int, origin image.Point) error {
	for rank := 0; rank < chess.Size; rank++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for file := 0; file < chess.Size; file++ {
			c := chess.Coordinate{Rank: rank, File: file}
			tile := board.At(c)
			if tile.Empty() {
				continue
			}
			img, err := renderPieceImage(tile.Piece, squareSize)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, squareRect(c, squareSize, origin), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawHighlight(img *image.RGBA, board *chess.Board, highlight *MoveHighlight, squareSize int, origin image.Point) {
	if highlight == nil || !highlight.From.Valid() || !highlight.To.Valid() {
		return
	}
	switch mover := moveHighlightMoverColor(board, highlight); mover {
	case chess.Black:
		drawArrow(img, highlight.From, highlight.To, squareSize, origin, blackMoveHighlightArrow)
	case chess.White:
		drawSquareOverlay(img, highlight.From, squareSize, origin, whiteMoveHighlightFill)
		drawSquareOverlay(img, highlight.To, squareSize, origin, whiteMoveHighlightFill)
	default:
		drawArrow(img, highlight.From, highlight.To, squareSize, origin, neutralMoveHighlightArrow)
	}
}

// moveHighlightMoverColor guesses who moved from whatever stands on either end.
func moveHighlightMoverColor(board *chess.Board, highlight *MoveHighlight) chess.Color {
	if t := board.At(highlight.To); !t.Empty() {
		return t.Control
	}
	if t := board.At(highlight.From); !t.Empty() {
		return t.Control
	}
	return chess.NoColor
}

type hudLayout struct {
	radius        int
	titleHeight   int
	turnHeight    int
	gapPanels     int
	gapToBoard    int
	paddingX      int
	titleMinWidth int
	turnMinWidth  int
	shadowOffsetY int
}

func drawHUD(img *image.RGBA, face font.Face, opts RenderOptions, materialDiff int, boardRect image.Rectangle, l hudLayout) {
	drawer := &font.Drawer{Dst: img, Face: face}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "White vs Black"
	}
	turnText := strings.TrimSpace(opts.HUDTurn)
	if turnText == "" {
		turnText = "Turn"
	}
	scoreText := formatMaterialDiff(materialDiff)

	turnBottom := boardRect.Min.Y - l.gapToBoard
	turnTop := turnBottom - l.turnHeight
	titleBottom := turnTop - l.gapPanels
	titleTop := titleBottom - l.titleHeight

	scoreWidth := drawer.MeasureString(scoreText).Round() + l.paddingX*2
	titleWidth := drawer.MeasureString(title).Round() + l.paddingX*2
	if titleWidth < l.titleMinWidth {
		titleWidth = l.titleMinWidth
	}
	if maxTitle := boardRect.Dx() - scoreWidth - 16; titleWidth > maxTitle {
		titleWidth = maxTitle
	}
	turnWidth := drawer.MeasureString(turnText).Round() + l.paddingX*2
	if turnWidth < l.turnMinWidth {
		turnWidth = l.turnMinWidth
	}
	if maxTurn := boardRect.Dx() - 40; turnWidth > maxTurn {
		turnWidth = maxTurn
	}

	titleRect := image.Rect(boardRect.Min.X, titleTop, boardRect.Min.X+titleWidth, titleBottom)
	scoreRect := image.Rect(boardRect.Max.X-scoreWidth, titleTop, boardRect.Max.X, titleBottom)
	turnLeft := boardRect.Min.X + (boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(turnLeft, turnTop, turnLeft+turnWidth, turnBottom)

	for _, rect := range []image.Rectangle{titleRect, scoreRect, turnRect} {
		drawRoundedPanel(img, rect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	}

	title = truncateWithEllipsis(face, title, titleRect.Dx()-l.paddingX*2)
	turnText = truncateWithEllipsis(face, turnText, turnRect.Dx()-l.paddingX*2)

	drawRoundedPanel(img, titleRect, l.radius, hudPanelColor)
	drawRoundedPanel(img, scoreRect, l.radius, hudPanelColor)
	drawRoundedPanel(img, turnRect, l.radius, hudTurnPanelColor)

	drawCenteredString(drawer, titleRect, title, hudTextPrimary)
	drawCenteredString(drawer, scoreRect, scoreText, hudTextPrimary)
	drawCenteredString(drawer, turnRect, turnText, hudTurnTextColor)
}

func formatMaterialDiff(diff int) string {
	if diff == 0 {
		return "0"
	}
	return fmt.Sprintf("%+d", diff)
}

func drawSquareOverlay(img *image.RGBA, c chess.Coordinate, squareSize int, origin image.Point, clr color.Color) {
	imagedraw.Draw(img, squareRect(c, squareSize, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawArrow(img *image.RGBA, from, to chess.Coordinate, squareSize int, origin image.Point, clr color.Color) {
	if from == to {
		return
	}
	startRect := squareRect(from, squareSize, origin)
	endRect := squareRect(to, squareSize, origin)
	startX := float64(startRect.Min.X + squareSize/2)
	startY := float64(startRect.Min.Y + squareSize/2)
	endX := float64(endRect.Min.X + squareSize/2)
	endY := float64(endRect.Min.Y + squareSize/2)

	dx := endX - startX
	dy := endY - startY
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	baseLength := length - float64(squareSize)*0.45
	if baseLength < float64(squareSize)*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := float64(squareSize) * 0.18
	headWidth := float64(squareSize) * 0.32

	baseX := startX + dirX*baseLength
	baseY := startY + dirY*baseLength

	fillQuad(img,
		pointF{X: startX - perpX*halfWidth, Y: startY - perpY*halfWidth},
		pointF{X: startX + perpX*halfWidth, Y: startY + perpY*halfWidth},
		pointF{X: baseX + perpX*halfWidth, Y: baseY + perpY*halfWidth},
		pointF{X: baseX - perpX*halfWidth, Y: baseY - perpY*halfWidth},
		clr,
	)
	fillTriangleF(img,
		pointF{X: endX, Y: endY},
		pointF{X: baseX - perpX*headWidth/2, Y: baseY - perpY*headWidth/2},
		pointF{X: baseX + perpX*headWidth/2, Y: baseY + perpY*headWidth/2},
		clr,
	)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}

	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}
	left := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if left.Dy() > 0 {
		imagedraw.Draw(img, left, fill, image.Point{}, imagedraw.Over)
	}
	right := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if right.Dy() > 0 {
		imagedraw.Draw(img, right, fill, image.Point{}, imagedraw.Over)
	}

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawQuarterDisc(img, center, radius, clr, rect)
	}
}

// drawQuarterDisc fills the part of the disc that lies outside the panel core.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius int, clr color.Color, panel image.Rectangle) {
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			p := image.Point{X: center.X + x, Y: center.Y + y}
			if !p.In(panel) {
				continue
			}
			if p.X >= panel.Min.X+radius && p.X < panel.Max.X-radius {
				continue
			}
			if p.Y >= panel.Min.Y+radius && p.Y < panel.Max.Y-radius {
				continue
			}
			blendPixel(img, p.X, p.Y, clr)
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCoordinates(dst imagedraw.Image, face font.Face, squareSize int, origin image.Point, margin int) {
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + chess.Size*squareSize

	for i := 0; i < chess.Size; i++ {
		rankLabel := fmt.Sprintf("%d", chess.Size-i)
		rankCenter := origin.Y + i*squareSize + squareSize/2
		drawCenteredText(drawer, rankLabel, origin.X-margin/2, rankCenter+ascent/2)

		fileLabel := string(rune('a' + i))
		fileCenter := origin.X + i*squareSize + squareSize/2
		drawCenteredText(drawer, fileLabel, fileCenter, boardEndY+ascent+4)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	// RGBA() is alpha-premultiplied
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstR := float64(dst.R) / 255.0
	dstG := float64(dst.G) / 255.0
	dstB := float64(dst.B) / 255.0
	dstA := float64(dst.A) / 255.0

	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8((srcR + dstR*(1-srcA)) * 255.0),
		G: floatToUint8((srcG + dstG*(1-srcA)) * 255.0),
		B: floatToUint8((srcB + dstB*(1-srcA)) * 255.0),
		A: floatToUint8((srcA + dstA*(1-srcA)) * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// squareRect maps a coordinate onto pixels; rank 0 is drawn at the top.
func squareRect(c chess.Coordinate, squareSize int, origin image.Point) image.Rectangle {
	x := origin.X + c.File*squareSize
	y := origin.Y + c.Rank*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

// squareColor makes a1 dark.
func squareColor(c chess.Coordinate) color.Color {
	if (c.Rank+c.File)%2 == 1 {
		return darkSquare
	}
	return lightSquare
}

func fillQuad(img *image.RGBA, p0, p1, p2, p3 pointF, clr color.Color) {
	fillTriangleF(img, p0, p1, p2, clr)
	fillTriangleF(img, p0, p2, p3, clr)
}

func fillTriangleF(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if pointInTriangleFloat(float64(x)+0.5, float64(y)+0.5, a, b, c) {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

func pointInTriangleFloat(x, y float64, a, b, c pointF) bool {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return false
	}
	alpha := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / denom
	beta := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / denom
	gamma := 1 - alpha - beta
	return alpha >= 0 && beta >= 0 && gamma >= 0
}

type pointF struct {
	X float64
	Y float64
}
