package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"studytime/internal/client"
	"studytime/internal/models"
	"studytime/internal/services"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 100
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type student struct {
	api       *client.Client
	subjectID int64
}

func main() {
	ctx := context.Background()
	fmt.Println("=== studytime load test ===")
	fmt.Printf("Workers: %d | Duration: %s | Users: %d\n\n", numWorkers, testDuration, numUsers)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Seeding users and subjects ---")
	students, err := seed(ctx)
	if err != nil {
		fmt.Println("FAILED:", err)
		return
	}
	fmt.Printf("seeded %d users\n", len(students))

	fmt.Println("\n--- Phase 2: Session churn (70% start/end, 30% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		s := students[rng.Intn(len(students))]
		r := rng.Float64()
		switch {
		case r < 0.45:
			return doStart(ctx, rng, s)
		case r < 0.70:
			return doEnd(ctx, rng, s)
		case r < 0.85:
			return doActive(ctx, s)
		default:
			return doLeaderboard(ctx, s)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy (10% start, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		s := students[rng.Intn(len(students))]
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doStart(ctx, rng, s)
		case r < 0.60:
			return doLeaderboard(ctx, s)
		case r < 0.80:
			return doUser(ctx, s)
		default:
			return doActive(ctx, s)
		}
	})
}

func seed(ctx context.Context) ([]*student, error) {
	run := time.Now().UnixNano()
	students := make([]*student, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		c := client.New(baseURL, httpClient)
		name := fmt.Sprintf("load_%d_%d", run, i)
		if _, err := c.Register(ctx, services.RegisterInput{Username: name, Password: "loadtest"}); err != nil {
			return nil, err
		}
		if _, err := c.Login(ctx, name, "loadtest"); err != nil {
			return nil, err
		}
		sub, err := c.CreateSubject(ctx, services.CreateSubjectInput{Name: "load", Color: "#888888"})
		if err != nil {
			return nil, err
		}
		students = append(students, &student{api: c, subjectID: sub.ID})
	}
	return students, nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func timed(endpoint string, fn func() error) result {
	start := time.Now()
	err := fn()
	return result{endpoint: endpoint, latency: time.Since(start), err: err != nil}
}

func doStart(ctx context.Context, rng *rand.Rand, s *student) result {
	types := []models.SessionType{models.SessionStudy, models.SessionStudy, models.SessionBreak}
	prior := int64(rng.Intn(120))
	return timed("POST /api/sessions/start", func() error {
		_, err := s.api.StartSession(ctx, s.subjectID, types[rng.Intn(len(types))], &prior)
		return err
	})
}

// doEnd ends whatever is active. Losing the race to another worker is not an error.
func doEnd(ctx context.Context, rng *rand.Rand, s *student) result {
	return timed("POST /api/sessions/{id}/end", func() error {
		active, err := s.api.ActiveSessions(ctx)
		if err != nil || len(active) == 0 {
			return err
		}
		_, err = s.api.EndSession(ctx, active[0].ID, int64(rng.Intn(600)))
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	})
}

func doActive(ctx context.Context, s *student) result {
	return timed("GET /api/sessions/active", func() error {
		_, err := s.api.ActiveSessions(ctx)
		return err
	})
}

func doLeaderboard(ctx context.Context, s *student) result {
	return timed("GET /api/leaderboard", func() error {
		_, err := s.api.Leaderboard(ctx, "")
		return err
	})
}

func doUser(ctx context.Context, s *student) result {
	return timed("GET /api/user", func() error {
		_, err := s.api.User(ctx)
		return err
	})
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
