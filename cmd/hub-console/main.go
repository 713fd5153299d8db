// hub-console is a line console for a Pybricks hub: lines typed on the
// terminal go to the hub program's stdin, hub output is echoed back.
// Useful for poking the dispatcher by hand (`motorA run 200`).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/hub"
)

var (
	hubName = flag.String("name", "", "hub name to connect to")
	address = flag.String("address", "", "hub BLE address to connect to")
	timeout = flag.Duration("timeout", 30*time.Second, "scan timeout")
)

func main() {
	flag.Parse()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sig
		cancel()
	}()

	log.Println("connecting...")
	h, err := hub.Connect(ctx, hub.Config{
		Name:        *hubName,
		Address:     *address,
		ScanTimeout: *timeout,
	})
	if err != nil {
		log.Fatalf("failed to connect: %s", err)
	}
	defer h.Close()
	log.Printf("connected to %s", h.Address())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case line := <-h.Stdout():
				fmt.Println(line)
			case running := <-h.Status():
				log.Printf("hub program running: %t", running)
			}
		}
	}()

	fmt.Println("type hub commands (e.g. 'motorA run 200', 'motorA stop'), ctrl-c to exit")

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := h.WriteLine(ctx, scanner.Text()); err != nil {
				log.Printf("send: %s", err)
				cancel()
				return
			}
		}
		cancel()
	}()

	<-ctx.Done()
	log.Println("done")
}
