package main

import (
	"log"

	"github.com/teneola/staffx/config"
	"github.com/teneola/staffx/db"
	"github.com/teneola/staffx/server"
	"github.com/teneola/staffx/services"
	"github.com/teneola/staffx/ws"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	userService := services.NewUserService(userRepo, conf)
	chatService := services.NewChatService(messageRepo, userRepo, conf)

	hub := ws.NewHub(chatService)

	s := &server.Server{
		Config:            conf,
		UserRepository:    userRepo,
		MessageRepository: messageRepo,
		UserService:       userService,
		ChatService:       chatService,
		Hub:               hub,
		DB:                *gormDB,
	}

	s.Start()
}
