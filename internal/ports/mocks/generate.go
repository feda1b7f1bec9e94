//go:generate mockgen -source=../client_storage.go -destination=./mock_client_storage.go -package=mocks
//go:generate mockgen -source=../storefront_api.go -destination=./mock_storefront_api.go -package=mocks
//go:generate mockgen -source=../checkout_view.go  -destination=./mock_checkout_view.go  -package=mocks
//go:generate mockgen -source=../notification.go   -destination=./mock_notification.go   -package=mocks

package mocks
