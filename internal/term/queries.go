package term

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"
)

// suppressGuestQueries prevents the emulator from writing automatic
// terminal-reply bytes (cursor position reports, device attributes, …)
// into its input stream. A render-mode adapter never reads that stream,
// but leaving the queries unanswered would otherwise perturb internal
// emulator state in a way that is not reproducible across runs —
// swallowing them here keeps replay deterministic (§8 property 8).
//
// Adapted from the identical technique in the teacher's interactive
// terminal view, where it exists for the opposite reason: to stop a
// live guest shell from seeing its own query replies echoed back as
// input.
func suppressGuestQueries(emu *vt.SafeEmulator) {
	if emu == nil {
		return
	}

	// Device Status Report (DSR): CSI n. Swallow Operating Status (5) and
	// Cursor Position Report (6).
	emu.RegisterCsiHandler('n', func(params ansi.Params) bool {
		n, _, ok := params.Param(0, 1)
		if !ok || n == 0 {
			return false
		}
		switch n {
		case 5, 6:
			return true
		default:
			return false
		}
	})

	// DEC private DSR: CSI ? n. Swallow Extended Cursor Position Report (6).
	emu.RegisterCsiHandler(ansi.Command('?', 0, 'n'), func(params ansi.Params) bool {
		n, _, ok := params.Param(0, 1)
		if !ok || n == 0 {
			return false
		}
		return n == 6
	})

	// Device Attributes: CSI c and CSI > c. Swallow the bare query form.
	emu.RegisterCsiHandler('c', func(params ansi.Params) bool {
		n, _, _ := params.Param(0, 0)
		return n == 0
	})
	emu.RegisterCsiHandler(ansi.Command('>', 0, 'c'), func(params ansi.Params) bool {
		n, _, _ := params.Param(0, 0)
		return n == 0
	})
}
