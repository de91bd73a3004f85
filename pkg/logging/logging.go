package logging

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Service string `json:"service"`
	OrderID int64  `json:"order_id,omitempty"`
	CartID  string `json:"cart_id,omitempty"`
	UserID  int64  `json:"user_id,omitempty"`
	Step    string `json:"step,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Log は1行JSONで出力する
func Log(fields Fields) {
	payload := map[string]any{
		"service":   fields.Service,
		"order_id":  fields.OrderID,
		"cart_id":   fields.CartID,
		"user_id":   fields.UserID,
		"step":      fields.Step,
		"status":    fields.Status,
		"message":   fields.Message,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}
