// ws_smoke connects to a running server, creates a task over HTTP and
// waits for the board push that follows.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

type boardFrame struct {
	Type    string `json:"type"`
	Payload struct {
		Tasks []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"tasks"`
		Stats struct {
			Total int `json:"total"`
		} `json:"stats"`
	} `json:"payload"`
}

func main() {
	_ = godotenv.Load()
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	first, err := readBoard(conn, func(boardFrame) bool { return true })
	if err != nil {
		logger.Fatal("initial board", "error", err)
	}
	logger.Info("initial board", "tasks", first.Payload.Stats.Total)

	title := "smoke " + uuid.NewString()[:8]
	body, _ := json.Marshal(map[string]any{"title": title, "description": "created by ws_smoke"})
	req, _ := http.NewRequest(http.MethodPost, "http://"+base+"/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		token, err := service.NewTokenIssuer(secret, time.Minute).Generate("ws_smoke")
		if err != nil {
			logger.Fatal("token", "error", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("create task", "error", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		logger.Fatal("create task", "status", res.StatusCode)
	}

	_, err = readBoard(conn, func(f boardFrame) bool {
		for _, t := range f.Payload.Tasks {
			if t.Title == title {
				return true
			}
		}
		return false
	})
	if err != nil {
		logger.Fatal("board push", "error", err)
	}
	logger.Info("smoke test finished", "task", title)
}

func readBoard(conn *websocket.Conn, match func(boardFrame) bool) (boardFrame, error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return boardFrame{}, err
		}
		var f boardFrame
		if err := json.Unmarshal(msg, &f); err != nil {
			continue
		}
		if f.Type == "board" && match(f) {
			return f, nil
		}
	}
}
