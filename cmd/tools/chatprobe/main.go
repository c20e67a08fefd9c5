package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/campusmind/backend/internal/analysis/emotion"
	"github.com/campusmind/backend/internal/config"
	"github.com/campusmind/backend/internal/service/ai"
	"github.com/campusmind/backend/internal/service/assistant"
	"github.com/campusmind/backend/internal/service/chat"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	mode := flag.String("mode", "", "probe mode: classify or chat")
	text := flag.String("text", "", "input text; chat mode reads stdin line by line when empty")
	flag.Parse()

	switch *mode {
	case "classify":
		if strings.TrimSpace(*text) == "" {
			log.Fatal("classify mode requires -text")
		}
		printJSON(emotion.Analyze(*text))
	case "chat":
		runChat(*text)
	default:
		flag.Usage()
		log.Fatal("use -mode=classify or -mode=chat")
	}
}

func runChat(text string) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] .env not loaded, using process environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	completer, err := ai.NewCompleter(ctx, cfg.AI)
	if errors.Is(err, ai.ErrNotConfigured) {
		log.Printf("[WARN] provider %s has no credentials, every turn will use the fallback reply", cfg.AI.Provider)
		completer = ai.UnavailableCompleter{}
	} else if err != nil {
		log.Fatalf("failed to initialize completer: %v", err)
	}

	svc := assistant.New(chat.NewMemoryStore(chat.StoreConfig{}), completer)

	if text != "" {
		turn(ctx, svc, "", text)
		return
	}

	conversationID := ""
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "> ")
	for scanner.Scan() {
		conversationID = turn(ctx, svc, conversationID, scanner.Text())
		fmt.Fprint(os.Stderr, "> ")
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}

func turn(ctx context.Context, svc *assistant.Service, conversationID, text string) string {
	result, err := svc.Handle(ctx, conversationID, text)
	if err != nil {
		log.Printf("turn rejected: %v", err)
		return conversationID
	}
	printJSON(result)
	return result.SessionID
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
