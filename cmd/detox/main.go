// Command detox is the terminal dashboard for the Terminal Detox API
package main

func main() {
	Execute()
}
