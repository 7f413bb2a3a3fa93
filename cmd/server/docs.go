package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           BNPL Track API
// @version         0.1.0
// @description     Risk/affordability analysis and record queries for BNPL obligations.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
