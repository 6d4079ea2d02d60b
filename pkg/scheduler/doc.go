// Package scheduler runs registered jobs in-process on daily, weekly or
// fixed-interval schedules.
//
// The Runner polls on a check interval (default 30s) and starts each due
// job in its own goroutine. Panics are recovered and logged; failures are
// logged and the job simply waits for its next slot. There is no overlap
// guard and no persistence: jobs are assumed short and idempotent, so a
// missed or doubled run is harmless.
//
//	runner := scheduler.NewRunner(scheduler.WithLogger(log))
//	runner.AddJob("expiry-reaper", scheduler.DailyAt(0, 0), reaper.Run)
//	runner.AddJob("daily-digest", scheduler.DailyAt(8, 0), daily.Run)
//	runner.AddJob("weekly-digest", scheduler.WeeklyOn(time.Monday, 8, 0), weekly.Run)
//	go runner.Start(ctx)
package scheduler
