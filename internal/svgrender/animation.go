package svgrender

import (
	"bytes"
	"fmt"
	"strconv"
)

// stop is one point in the playback timeline: percent is the cumulative
// position (0..100) at which #screen_view must be translated to
// translateY.
type stop struct {
	percent    float64
	translateY float64
}

// buildStops computes a discrete keyframe timeline from a playback
// sequence, per §4.G: the viewport jumps to each library frame's position
// at the cumulative-time percentage it begins, and holds there — no
// interpolation between frames — until the percentage the next one begins.
func buildStops(lib library, cellHeight float64) ([]stop, int64) {
	var total int64
	for _, d := range lib.stepDurs {
		total += d
	}
	if total == 0 {
		total = 1
	}

	stops := make([]stop, 0, len(lib.sequence)+1)
	var cumulative int64
	for i, idx := range lib.sequence {
		pct := float64(cumulative) / float64(total) * 100
		stops = append(stops, stop{percent: pct, translateY: -float64(idx) * cellHeight})
		cumulative += lib.stepDurs[i]
	}
	if n := len(stops); n > 0 {
		stops = append(stops, stop{percent: 100, translateY: stops[n-1].translateY})
	}

	return stops, total
}

// cssKeyframes renders the @keyframes rule and the #screen_view animation
// declaration driving it. Each stop but the last pins
// `animation-timing-function: steps(1, jump-end)` so the browser holds the
// current frame exactly until the next stop instead of interpolating the
// translate.
func cssKeyframes(lib library, cellHeight float64) string {
	stops, total := buildStops(lib, cellHeight)
	if len(stops) == 0 {
		return ""
	}

	var b bytes.Buffer
	b.WriteString("@keyframes roll{")
	for i, s := range stops {
		fmt.Fprintf(&b, "%s%%{transform:translateY(%spx)", pct(s.percent), fnum(s.translateY))
		if i != len(stops)-1 {
			b.WriteString(";animation-timing-function:steps(1,jump-end)")
		}
		b.WriteString("}")
	}
	b.WriteString("}")

	fmt.Fprintf(&b, "#screen_view{--animation-duration:%dms;animation:roll var(--animation-duration) infinite}", total)

	return b.String()
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// waapiScript emits a small termsvg_vars object plus a driver that calls
// Element.animate() with the same discrete-hold semantics as cssKeyframes,
// for templates whose <animation type="waapi"/> opts into script-driven
// playback instead.
func waapiScript(lib library, cellHeight float64) string {
	stops, total := buildStops(lib, cellHeight)

	var offsets, transforms bytes.Buffer
	for i, s := range stops {
		if i > 0 {
			offsets.WriteString(",")
			transforms.WriteString(",")
		}
		fmt.Fprintf(&offsets, "%s", pct(s.percent/100))
		fmt.Fprintf(&transforms, "\"translateY(%spx)\"", fnum(s.translateY))
	}

	return fmt.Sprintf(`var termsvg_vars={offsets:[%s],transforms:[%s],durationMs:%d};
(function(){
  var el=document.getElementById("screen_view");
  if(!el||typeof el.animate!=="function")return;
  var keyframes=termsvg_vars.transforms.map(function(t,i){
    return {transform:t,offset:termsvg_vars.offsets[i],easing:"steps(1,jump-end)"};
  });
  el.animate(keyframes,{duration:termsvg_vars.durationMs,iterations:Infinity,fill:"forwards"});
})();`, offsets.String(), transforms.String(), total)
}
