package routes

import (
	"LINKUP_server/config"
	"LINKUP_server/middlewares"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

// SetRoutes sets all routes of server
func SetRoutes(app *fiber.App, hub *socket.Hub) {
	api := app.Group(config.Config.Version)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config.Origin,
		AllowCredentials: true,
	}))

	app.Use("/stream", middlewares.AuthenticateStream, socket.InitializeSocket, websocket.New(hub.ClientSocket))

	authRoutes(api)
	userRoutes(api)
	followRoutes(api, hub)
	messageRoutes(api, hub)
	notificationRoutes(api)
	postRoutes(api, hub)
	storyRoutes(api, hub)
	searchRoutes(api)
	mediaRoutes(api)
}
