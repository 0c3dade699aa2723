package handlers

// AppHandlers содержит все HTTP-обработчики приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ForumHandler        *ForumHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
}
