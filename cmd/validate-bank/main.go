// Command validate-bank loads a question bank and reports whether it
// satisfies the ingestion invariants. Useful before deploying a new
// bank file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/reteihq/attest-backend/internal/bank"
	"github.com/reteihq/attest-backend/internal/logger"
)

func main() {
	var source string
	flag.StringVar(&source, "source", "./data/questions.json", "Question bank file path or URL")
	flag.Parse()

	log := logger.Setup("info", "pretty")

	questions, err := bank.NewLoader(source, log).Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bank is invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Bank %q is valid: %d questions\n", source, len(questions))
	for _, q := range questions {
		correct, _ := q.CorrectAnswer()
		fmt.Printf("  %s: %d options, correct: %q\n", q.ID, len(q.Answers), correct)
	}
}
