package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/omochice/toy-line-echo/internal/client"
)

func main() {
	// Parse command-line flags
	serverAddr := flag.String("server", "localhost:8080", "Server address (e.g., localhost:8080)")
	transport := flag.String("transport", "tcp", "Transport to use: tcp or ws")
	flag.Parse()

	// Create client
	c, err := client.New(*serverAddr, *transport)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	// Connect to server
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	defer c.Disconnect()

	log.Printf("Connected to %s over %s", *serverAddr, *transport)

	// Start goroutine to receive and display echoed lines
	go func() {
		for line := range c.Lines() {
			fmt.Println(line)
		}
	}()

	// Read from stdin and send lines
	fmt.Println("Type your lines (or 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")

		if text == "quit" || text == "exit" {
			break
		}

		if err := c.Send(text); err != nil {
			log.Printf("Failed to send line: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error reading input: %v", err)
	}

	log.Println("Disconnected from server")
}
