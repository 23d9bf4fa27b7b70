package main

import (
	"fmt"
	"os"
	"strconv"

	"depths-server/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "hash":
		if len(os.Args) < 3 {
			fmt.Println("Usage: seedtool hash <string>")
			return
		}
		fmt.Println(utils.StringToSeed(os.Args[2]))
	case "derive":
		if len(os.Args) < 4 {
			fmt.Println("Usage: seedtool derive <master_seed> <level>")
			return
		}
		master, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid seed: %v\n", err)
			return
		}
		level, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Printf("Invalid level: %v\n", err)
			return
		}
		// Та же формула, что в мире: сид уровня N = мастер-сид + N.
		fmt.Println(master + int64(level))
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Seed Utility - работа с сидами генерации
Commands:
  hash <string>                - преобразовать строку в сид
  derive <master_seed> <level> - сид конкретного уровня забега`)
}
