//go:build !windows

package action

// Supported reports whether OS cursor control is available.
func Supported() bool { return false }

// MoveCursor is a no-op on this platform.
func MoveCursor(x, y int) {}

// ClickLeft is a no-op on this platform.
func ClickLeft() {}

// ClickRight is a no-op on this platform.
func ClickRight() {}

// PrimaryScreenSize is unknown on this platform.
func PrimaryScreenSize() (int, int) { return 0, 0 }
