// Package sim contains the Monte Carlo simulation engine: per-trial effort
// sampling, dependency-aware scheduling against the capacity ledger, and the
// driver that repeats trials and collects per-item date series. Trials are
// independent by construction; each gets a fresh ledger and its own seeded
// random source, so runs are reproducible at any worker count.
package sim
