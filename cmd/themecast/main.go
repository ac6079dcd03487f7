// Package main provides the CLI entrypoint for themecast.
package main

func main() {
	Execute()
}
