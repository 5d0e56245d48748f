package main

import (
	"campusgate.io/infrastructure"
	"campusgate.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}
