//go:build windows

package action

import (
	"time"

	"golang.org/x/sys/windows"
)

var (
	user32       = windows.NewLazySystemDLL("user32.dll")
	setCursorPos = user32.NewProc("SetCursorPos")
	mouseEvent   = user32.NewProc("mouse_event")
	getMetrics   = user32.NewProc("GetSystemMetrics")
)

const (
	mouseeventfLeftDown  = 0x0002
	mouseeventfLeftUp    = 0x0004
	mouseeventfRightDown = 0x0008
	mouseeventfRightUp   = 0x0010

	smCxScreen = 0
	smCyScreen = 1
)

// Supported reports whether OS cursor control is available.
func Supported() bool { return true }

// MoveCursor moves the OS mouse pointer to (x, y) using SetCursorPos.
func MoveCursor(x, y int) {
	_, _, _ = setCursorPos.Call(uintptr(x), uintptr(y))
}

// ClickLeft sends a left button click (down then up).
func ClickLeft() { click(mouseeventfLeftDown, mouseeventfLeftUp) }

// ClickRight sends a right button click (down then up).
func ClickRight() { click(mouseeventfRightDown, mouseeventfRightUp) }

func click(down, up uintptr) {
	_, _, _ = mouseEvent.Call(down, 0, 0, 0, 0)
	time.Sleep(30 * time.Millisecond)
	_, _, _ = mouseEvent.Call(up, 0, 0, 0, 0)
}

// PrimaryScreenSize returns the primary display size in pixels.
func PrimaryScreenSize() (int, int) {
	w, _, _ := getMetrics.Call(smCxScreen)
	h, _, _ := getMetrics.Call(smCyScreen)
	return int(w), int(h)
}
