package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyPathValues         = "pathValues"
	KeyCacheKey           = "cacheKey"
	KeyDbURL              = "dbURL"
	KeyCartID             = "cartId"
	KeyCart               = "cart"
	KeyCartItems          = "cartItems"
	KeyCartItemQuantity   = "cartItemQuantity"
	KeyCartTotal          = "cartTotal"
	KeyCategory           = "category"
	KeyProductID          = "productId"
	KeyProduct            = "product"
	KeyProducts           = "products"
	KeyProductsCount      = "productsCount"
	KeyOrderID            = "orderId"
	KeyOrder              = "order"
	KeyOrderItems         = "orderItems"
	KeyOrderItemsCount    = "orderItemsCount"
	KeyCheckoutState      = "checkoutState"
	KeySessionID          = "sessionId"
	KeySessionsCount      = "sessionsCount"
	KeyChannel            = "channel"
	KeyRemoteBackend      = "remoteBackend"
	KeyRemoteURL          = "remoteURL"
	KeyStatusCode         = "statusCode"
)
