// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

// OpenController owns the open flag of a dialog.
type OpenController interface {
	IsOpen() bool
	SetOpen(open bool)

	// ShowsTrigger reports whether the dialog renders its own trigger.
	ShowsTrigger() bool
}

// ControlledOpen leaves the open flag with the caller.
//
// When OnOpenChange is set the caller also owns opening, so no trigger is
// rendered. Without it, dismissal cannot change the flag and is a no-op.
type ControlledOpen struct {
	Open         func() bool
	OnOpenChange func(open bool)
}

// IsOpen implements OpenController.
func (c ControlledOpen) IsOpen() bool {
	if c.Open == nil {
		return false
	}
	return c.Open()
}

// SetOpen implements OpenController.
func (c ControlledOpen) SetOpen(open bool) {
	if c.OnOpenChange != nil {
		c.OnOpenChange(open)
	}
}

// ShowsTrigger implements OpenController.
func (c ControlledOpen) ShowsTrigger() bool {
	return c.OnOpenChange == nil
}

// UncontrolledOpen keeps the open flag inside the dialog. The zero value
// is closed.
type UncontrolledOpen struct {
	open bool
}

// IsOpen implements OpenController.
func (u *UncontrolledOpen) IsOpen() bool { return u.open }

// SetOpen implements OpenController.
func (u *UncontrolledOpen) SetOpen(open bool) { u.open = open }

// ShowsTrigger implements OpenController.
func (u *UncontrolledOpen) ShowsTrigger() bool { return true }
