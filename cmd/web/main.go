// @title           Rianzel Community API
// @version         1.0
// @description     API сообщества: аутентификация, форум, уведомления, админ-панель.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1

package main

import "rianzel_backend/internal/app"

func main() {
	app.Run()
}
