package trilog_test

import (
	"fmt"
	"os"

	"github.com/trilog/trilog"
)

func ExampleLogger_LogAt() {
	logger, err := trilog.New(trilog.Config{Fallback: os.Stdout})
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	r := logger.LogAt(trilog.INFO, "main.go", 42, "main")
	r.Print("service started")
	r.Close()
	// Output: INFO | main.go:42 | main: service started
}

func ExampleParseSeverity() {
	s, _ := trilog.ParseSeverity("warn")
	fmt.Println(s)
	// Output: WARNING
}
