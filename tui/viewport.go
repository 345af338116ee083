// ABOUTME: Scroll offset calculation for the genre checklist
// ABOUTME: Implements vim/less style scrolling behavior

package tui

// ViewportManager handles cursor visibility and list scrolling
// Implements vim/less style scrolling: cursor moves to middle, then content scrolls
type ViewportManager struct {
	height     int // Visible rows
	cursorPos  int // Current cursor position
	totalItems int // Total number of rows
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(height, cursorPos, totalItems int) *ViewportManager {
	return &ViewportManager{
		height:     height,
		cursorPos:  cursorPos,
		totalItems: totalItems,
	}
}

// CalculateOffset computes the index of the first visible row
//
// Scrolling behavior:
// - Top: cursor moves freely, list stays at 0
// - Middle: cursor stays at middle, content scrolls
// - Bottom: list shows the end, cursor moves to bottom
func (vm *ViewportManager) CalculateOffset() int {
	if vm.totalItems == 0 || vm.height < 1 || vm.totalItems <= vm.height {
		return 0
	}

	middle := vm.height / 2

	if vm.cursorPos < middle {
		return 0
	}

	bottomThreshold := vm.totalItems - vm.height + middle
	if vm.cursorPos < bottomThreshold {
		return vm.cursorPos - middle
	}

	return vm.totalItems - vm.height
}

// Window returns the half-open range [start, end) of visible rows
func (vm *ViewportManager) Window() (start, end int) {
	start = vm.CalculateOffset()
	end = vm.totalItems

	if vm.height > 0 && start+vm.height < end {
		end = start + vm.height
	}

	return start, end
}
