package rtecom

//go:generate protoc --go_out=paths=source_relative:. snapshot.proto
