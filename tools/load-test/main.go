package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

type summaryRow struct {
	EmployeeID string `json:"employeeId"`
	Error      string `json:"error"`
}

func main() {
	// Configuration
	url := "http://localhost:8080/api/v1/attendance/summaries"
	contentType := "application/json"

	numBatches := 200
	employeesPerBatch := 25
	concurrency := 10 // Each batch already fans out inside the service

	fmt.Printf("Starting load test: %d batches of %d employees to %s with concurrency %d\n", numBatches, employeesPerBatch, url, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency) // Semaphore to limit concurrency

	var successCount int64
	var failCount int64
	var rowErrors int64

	startTime := time.Now()

	for i := 0; i < numBatches; i++ {
		wg.Add(1)
		sem <- struct{}{} // Acquire token

		ids := make([]string, employeesPerBatch)
		for j := range ids {
			ids[j] = fmt.Sprintf("emp-%d", j+1)
		}
		month := 1 + i%12

		go func(ids []string, month int) {
			defer wg.Done()
			defer func() { <-sem }() // Release token

			payload, _ := json.Marshal(map[string]any{"employeeIds": ids, "month": month, "year": 2025})
			resp, err := http.Post(url, contentType, bytes.NewBuffer(payload))
			if err != nil {
				atomic.AddInt64(&failCount, 1)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				atomic.AddInt64(&failCount, 1)
				return
			}

			var body struct {
				Summaries []summaryRow `json:"summaries"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				atomic.AddInt64(&failCount, 1)
				return
			}
			atomic.AddInt64(&successCount, 1)
			for _, row := range body.Summaries {
				if row.Error != "" {
					atomic.AddInt64(&rowErrors, 1)
				}
			}
		}(ids, month)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", numBatches)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Row errors:     %d of %d\n", rowErrors, int64(numBatches*employeesPerBatch))
	fmt.Printf("Requests/Sec:   %.2f\n", float64(numBatches)/duration.Seconds())
	fmt.Printf("Employees/Sec:  %.2f\n", float64(numBatches*employeesPerBatch)/duration.Seconds())
}
