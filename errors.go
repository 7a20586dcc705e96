/*
 * errors.go, part of goMMFF.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 * Copyright 2024 The goMMFF Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mmff

//The numerical functions in this package don't return errors. Only the
//functions that deal with setting things up do.

// ErrorInt is the interface for the errors returned by goMMFF packages.
// Decorate allows adding information (usually the name of the calling function)
// to the error as it is passed up. Each call also returns the decoration slice
// resulting from the call. If given an empty string, it just returns the current
// decoration.
type ErrorInt interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

// Error is the error type for the mmff package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return "goMMFF: " + err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }

// ErrDecorate decorates err with the caller's name, if err implements
// ErrorInt, and returns it.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	//Error has value receivers, so its decoration has to be added to a copy.
	if err2, ok := err.(Error); ok {
		err2.deco = append(err2.deco, caller)
		return err2
	}
	if err2, ok := err.(ErrorInt); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
