package main

import "github.com/norrbil/rentals/cmd/rentalctl/commands"

func main() {
	commands.Execute()
}
