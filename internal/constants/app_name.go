package constants

const (
	APP_STOREFRONT           = "storefront"
	APP_NOTIFICATION_SERVICE = "notification-service"
	APP_PRODUCT_SERVICE      = "product-service"
	APP_CART_SERVICE         = "cart-service"
	APP_ORDER_SERVICE        = "order-service"
	APP_MAIN_PERFUMERY       = "main perfumery"
)

const (
	CHANNEL_ORDER_CREATED = "order-created"
)

const (
	CURRENCY_UAH = "UAH"
)
