// Package ui prints user facing messages for the command line.
package ui

import (
	"github.com/pterm/pterm"
)

func Printfln(format string, a ...interface{}) {
	pterm.Printfln(format, a...)
}

func Info(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func Success(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

func Warning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func Error(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// Table renders rows with the first row as header.
func Table(rows [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// DisableStyling turns off colors, e.g. when output is piped.
func DisableStyling() {
	pterm.DisableStyling()
}

// DisableColor keeps the styling but drops colors.
func DisableColor() {
	pterm.DisableColor()
}
