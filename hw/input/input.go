package input

import (
	"strings"
)

// A Button identifies one of the 8 input lines of the console.
type Button byte

const (
	A Button = iota
	B
	Select
	Start
	Right
	Left
	Up
	Down

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	"A", "B", "Select", "Start", "Right", "Left", "Up", "Down",
}

func (b Button) String() string {
	if b < ButtonCount {
		return buttonNames[b]
	}
	return "invalid"
}

// Buttons is the state of all input lines, one bit per Button; a set bit
// means pressed.
type Buttons uint8

func (bs Buttons) Pressed(b Button) bool {
	return bs&(1<<b) != 0
}

func (bs *Buttons) Set(b Button, pressed bool) {
	if pressed {
		*bs |= 1 << b
	} else {
		*bs &^= 1 << b
	}
}

// ActionNibble returns the active-low state of A, B, Select and Start, as
// seen on the joypad register when the action lines are selected.
func (bs Buttons) ActionNibble() uint8 {
	return ^uint8(bs) & 0x0F
}

// DirectionNibble returns the active-low state of Right, Left, Up and Down.
func (bs Buttons) DirectionNibble() uint8 {
	return ^uint8(bs>>4) & 0x0F
}

func (bs Buttons) String() string {
	var names []string
	for b := range ButtonCount {
		if bs.Pressed(b) {
			names = append(names, b.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}
