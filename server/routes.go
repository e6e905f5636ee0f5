package server

func (l *Listener) initRoutes() {
	l.registerRouteFunc("GET /redirect", ChainMiddleware(l.redirectHandler, l.callbackMiddleware()...))
	l.registerRouteFunc("GET /reset", ChainMiddleware(l.resetHandler, l.callbackMiddleware()...))
}
