package main

import (
	"tasklist/connection"
)

func main() {
	connection.StartServer()
}
