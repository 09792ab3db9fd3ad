package main

import "kpiassess/internal/app/server"

func main() {
	server.Run()
}
