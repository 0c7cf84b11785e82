package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/userdir-dev/userdir/pkg/schema"
	"github.com/userdir-dev/userdir/pkg/userdir"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	dataDir := os.Getenv("USERDIR_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	svc, err := userdir.Open(dataDir)
	if err != nil {
		log.Fatalf("Failed to open directory at %s: %v", dataDir, err)
	}
	defer svc.Wait()

	command := strings.ToUpper(os.Args[1])
	args := os.Args[2:]

	switch command {
	case "ADD":
		if len(args) < 2 {
			log.Fatal("Usage: userdir ADD <username> <email> [metadata-json]")
		}
		var metadata map[string]string
		if len(args) > 2 {
			if err := json.Unmarshal([]byte(args[2]), &metadata); err != nil {
				log.Fatalf("Invalid metadata JSON: %v", err)
			}
		}
		record, err := svc.Create(args[0], args[1], metadata)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(record)

	case "GET":
		if len(args) < 1 {
			log.Fatal("Usage: userdir GET <username>")
		}
		record, err := svc.Find(args[0])
		if err != nil {
			log.Fatal(err)
		}
		printJSON(record)

	case "UPDATE":
		if len(args) < 2 {
			log.Fatal("Usage: userdir UPDATE <username> <changes-json>")
		}
		var changes schema.UserChanges
		if err := json.Unmarshal([]byte(args[1]), &changes); err != nil {
			log.Fatalf("Invalid changes JSON: %v", err)
		}
		record, err := svc.Update(args[0], changes)
		if err != nil {
			log.Fatal(err)
		}
		printJSON(record)

	case "DEL":
		if len(args) < 1 {
			log.Fatal("Usage: userdir DEL <username>")
		}
		if err := svc.Delete(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("OK")

	case "LIST":
		printJSON(svc.List())

	case "LOG":
		printJSON(svc.Activity())

	case "EXPORT":
		if len(args) < 1 {
			log.Fatal("Usage: userdir EXPORT <dir>")
		}
		if err := svc.Export(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("OK")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("userdir - CLI for the user directory")
	fmt.Println("\nUsage:")
	fmt.Println("  userdir ADD <username> <email> [metadata-json]")
	fmt.Println("  userdir GET <username>")
	fmt.Println("  userdir UPDATE <username> <changes-json>")
	fmt.Println("  userdir DEL <username>")
	fmt.Println("  userdir LIST")
	fmt.Println("  userdir LOG")
	fmt.Println("  userdir EXPORT <dir>")
	fmt.Println("\nEnvironment Variables:")
	fmt.Println("  USERDIR_DATA_DIR    Snapshot directory (default: ./data)")
}

func printJSON(v any) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(bytes))
}
