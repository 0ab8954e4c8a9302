package stack

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-stage/internal/stage"
)

// hud holds what the side panel and banner show. It implements
// stage.Announcer, stage.Display and stage.Session.
type hud struct {
	loaded bool // Announcer becomes usable after the first tick

	banner         stage.Banner
	bannerText     string
	bannerLeft     time.Duration
	bannerSticky   bool
	bannerDuration time.Duration
	round          func() int

	scoreText     string
	remainingText string
	toTitle       bool
}

func newHUD(bannerDuration time.Duration, round func() int) *hud {
	return &hud{
		bannerDuration: bannerDuration,
		round:          round,
		scoreText:      "0",
	}
}

// Ready reports whether banners can be shown yet.
func (h *hud) Ready() bool {
	return h.loaded
}

// Show displays a banner. Dismiss hides the current one; GameOver stays
// until the session ends.
func (h *hud) Show(b stage.Banner) {
	h.banner = b
	h.bannerLeft = h.bannerDuration
	h.bannerSticky = false

	switch b {
	case stage.BannerRoundStart:
		h.bannerText = fmt.Sprintf("ROUND %d", h.round())
	case stage.BannerStageClear:
		h.bannerText = "STAGE CLEAR"
	case stage.BannerGameOver:
		h.bannerText = "GAME OVER"
		h.bannerSticky = true
	case stage.BannerDismiss:
		h.bannerText = ""
		h.bannerLeft = 0
	}
}

// ShowScore displays the score of the latest clear in lowercase hex.
func (h *hud) ShowScore(score int) {
	h.scoreText = strconv.FormatInt(int64(score), 16)
}

// ShowRemaining displays the lines left this round, blank at zero or below.
func (h *hud) ShowRemaining(lines int) {
	if lines <= 0 {
		h.remainingText = ""
		return
	}
	h.remainingText = strconv.Itoa(lines)
}

// EndToTitle asks the platform to go back to the title menu.
func (h *hud) EndToTitle() {
	h.toTitle = true
}

// visibleBanner returns the banner text to draw, or "".
func (h *hud) visibleBanner() string {
	if h.bannerSticky || h.bannerLeft > 0 {
		return h.bannerText
	}
	return ""
}

func (h *hud) tick(dt time.Duration) {
	if h.bannerSticky || h.bannerLeft <= 0 {
		return
	}
	h.bannerLeft -= dt
}
