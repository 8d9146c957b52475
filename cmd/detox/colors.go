package main

import "github.com/fatih/color"

var (
	Red  = color.New(color.FgRed)
	Cyan = color.New(color.FgCyan)
)
