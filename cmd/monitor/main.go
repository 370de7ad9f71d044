package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/glazeddonut/Tennis-Monitor/internal/api"
	"github.com/glazeddonut/Tennis-Monitor/internal/browser"
	"github.com/glazeddonut/Tennis-Monitor/internal/config"
	"github.com/glazeddonut/Tennis-Monitor/internal/monitor"
	"github.com/glazeddonut/Tennis-Monitor/internal/notifier"
	"github.com/glazeddonut/Tennis-Monitor/internal/scraper"
)

func main() {
	configPath := flag.String("config", "", "config file path (auto-discovered when empty)")
	headless := flag.Bool("headless", true, "run the browser headless")
	testNotify := flag.Bool("test-notify", false, "send a test notification and exit")
	mapCourts := flag.Bool("map-courts", false, "poll once with validation off and print the observed court numbers")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	// An explicit flag wins over the config file.
	headlessSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			headlessSet = true
		}
	})
	if !headlessSet {
		*headless = cfg.Monitor.Headless
	}

	if *testNotify {
		n := notifier.NewManager(cfg.Notify)
		n.NotifyAlert("Tennis Monitor Test", "Notification channels are working 🎾")
		log.Println("✅ test notification sent")
		return
	}

	if err := run(cfg, *headless, *mapCourts); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(cfg *config.Config, headless, mapCourts bool) error {
	browserClient, err := browser.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer browserClient.Close()

	if err := browserClient.Start(headless); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	courts := scraper.CourtMap(cfg.Booking.Courts)
	if mapCourts {
		// Bootstrap mode: an empty map disables structure validation so
		// every court on the page can be observed.
		courts = scraper.CourtMap{}
	}
	client := scraper.New(browserClient, courts, cfg.Booking.CoPlayer)

	if mapCourts {
		return printCourtMap(client)
	}

	if len(courts) == 0 {
		log.Println("⚠️ no court map configured; structure validation is off (run with -map-courts to bootstrap one)")
	}

	n := notifier.NewManager(cfg.Notify)
	mon := monitor.New(cfg, client, n)

	if cfg.API.Enabled {
		server := api.New(mon, cfg.API)
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("⚠️ API server shutdown: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("🛑 shutdown signal received")
		mon.Stop()
	}()

	mon.Run()
	return nil
}

// printCourtMap performs a single availability check and prints the raw
// court numbers seen on the page, as a starting point for the courts
// section of the config file.
func printCourtMap(client *scraper.Client) error {
	slots, err := client.GetAvailableSlots("")
	if err != nil {
		return fmt.Errorf("availability check failed: %w", err)
	}

	byNum := map[string]string{}
	for _, slot := range slots {
		if slot.CourtNum != "" {
			byNum[slot.CourtNum] = slot.Title
		}
	}
	if len(byNum) == 0 {
		fmt.Println("no court numbers observed (no available slots right now?)")
		return nil
	}

	nums := make([]string, 0, len(byNum))
	for num := range byNum {
		nums = append(nums, num)
	}
	sort.Strings(nums)

	fmt.Println("observed court numbers - add these under booking.courts in config.yaml:")
	for _, num := range nums {
		if title := byNum[num]; title != "" {
			fmt.Printf("  \"%s\": \"\"   # title: %s\n", num, title)
		} else {
			fmt.Printf("  \"%s\": \"\"\n", num)
		}
	}
	return nil
}
