/*
battery-reporter - Battery telemetry sampling and reporting
Copyright (C) 2024, The Cacophony Project

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package powersupply reads battery samples from the operating system.
package powersupply

import (
	"context"
	"fmt"

	"github.com/TheCacophonyProject/battery-reporter/battery"
)

const (
	SourceSysfs  = "sysfs"
	SourceUPower = "upower"
)

// Source makes a single battery reading.
type Source interface {
	Read(ctx context.Context) (battery.Sample, error)
}

// New returns the source of the given kind. root and name are only used by the sysfs source.
func New(kind, root, name string) (Source, error) {
	switch kind {
	case SourceSysfs, "":
		return NewSysfs(root, name), nil
	case SourceUPower:
		return NewUPower()
	default:
		return nil, fmt.Errorf("unknown battery source '%s'", kind)
	}
}
