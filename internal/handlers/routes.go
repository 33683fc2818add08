package handlers

import "github.com/labstack/echo/v4"

// Routes groups the API handlers mounted under /v1
type Routes struct {
	Products *ProductHandlers
	Vendors  *VendorHandlers
	Sourcing *SourcingHandlers
	Quotes   *VendorQuoteHandlers
}

// Register mounts every API route on g. mutating middleware wraps only the
// write routes.
func (r *Routes) Register(g *echo.Group, mutating ...echo.MiddlewareFunc) {
	g.GET("/products", r.Products.ListProducts)
	g.POST("/products", r.Products.CreateProduct, mutating...)
	g.GET("/products/:productId", r.Products.GetProduct)
	g.PUT("/products/:productId/image", r.Products.UploadProductImage, mutating...)

	g.GET("/vendors", r.Vendors.ListVendors)
	g.POST("/vendors", r.Vendors.CreateVendor, mutating...)
	g.GET("/vendors/:vendorId", r.Vendors.GetVendor)
	g.PUT("/vendors/:vendorId", r.Vendors.UpdateVendor, mutating...)

	g.GET("/products/:productId/vendors", r.Sourcing.ListLinks)
	g.POST("/products/:productId/vendors", r.Sourcing.CreateLink, mutating...)
	g.PUT("/products/:productId/vendors/:linkId", r.Sourcing.UpdateLink, mutating...)
	g.DELETE("/products/:productId/vendors/:linkId", r.Sourcing.DeleteLink, mutating...)

	g.GET("/products/:productId/quotes", r.Quotes.ListProductQuotes)
	quotes := "/products/:productId/vendors/:linkId/quotes"
	g.GET(quotes, r.Quotes.ListQuotes)
	g.POST(quotes, r.Quotes.CreateQuote, mutating...)
	g.GET(quotes+"/:quoteId", r.Quotes.GetQuote)
	g.PUT(quotes+"/:quoteId", r.Quotes.UpdateQuote, mutating...)
	g.PATCH(quotes+"/:quoteId/status", r.Quotes.TransitionStatus, mutating...)
	g.DELETE(quotes+"/:quoteId", r.Quotes.DeleteQuote, mutating...)
}
