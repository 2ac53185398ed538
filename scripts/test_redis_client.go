package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/pkg/redis"
)

func main() {
	fmt.Println("=========================================")
	fmt.Println("Redis Client Test")
	fmt.Println("=========================================")
	fmt.Println()

	// Создаем Redis клиент
	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()

	// Test 1: PING
	fmt.Println("Test 1: PING")
	if err := client.Ping(ctx); err != nil {
		fmt.Printf("❌ PING failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ PING successful")
	fmt.Println()

	// Test 2: SET/GET с TTL как у кэша списков парковок
	fmt.Println("Test 2: SET/GET")
	testKey := "test:parkings:all"
	testValue := `[{"id":1,"address":"ул. Ленина, 1"}]`

	if err := client.Set(ctx, testKey, testValue, 5*time.Second); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ SET %s\n", testKey)

	value, err := client.Get(ctx, testKey)
	if err != nil {
		fmt.Printf("❌ GET failed: %v\n", err)
		os.Exit(1)
	}
	if value != testValue {
		fmt.Printf("❌ GET returned wrong value: %s\n", value)
		os.Exit(1)
	}
	fmt.Printf("✅ GET %s\n", testKey)
	fmt.Println()

	// Test 3: истечение TTL
	fmt.Println("Test 3: TTL expiration")
	if err := client.Set(ctx, "test:parkings:count", "4", 1*time.Second); err != nil {
		fmt.Printf("❌ SET failed: %v\n", err)
		os.Exit(1)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, err := client.Get(ctx, "test:parkings:count"); err == nil {
		fmt.Println("❌ Key should have expired")
		os.Exit(1)
	}
	fmt.Println("✅ Key expired after TTL")
	fmt.Println()

	// Test 4: DEL (инвалидация как при создании парковки)
	fmt.Println("Test 4: DEL (cleanup)")
	if err := client.Del(ctx, testKey); err != nil {
		fmt.Printf("❌ DEL failed: %v\n", err)
		os.Exit(1)
	}
	if _, err := client.Get(ctx, testKey); err == nil {
		fmt.Println("❌ Key should not exist after DEL")
		os.Exit(1)
	}
	fmt.Println("✅ Deleted test keys")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("✅ All Redis client tests passed!")
	fmt.Println("=========================================")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
