package authz

import (
	"strings"

	"giftible/internal/domain"
)

type Route struct {
	Path  string
	Roles []domain.Role
}

var (
	adminOnly = []domain.Role{domain.RoleAdmin}
	ngoOnly   = []domain.Role{domain.RoleNGO}
	userOnly  = []domain.Role{domain.RoleUser}
	signedIn  = []domain.Role{domain.RoleAdmin, domain.RoleNGO, domain.RoleUser}
)

// Pages is the browser route table.
var Pages = []Route{
	{Path: "/"},
	{Path: "/login"},
	{Path: "/register/user"},
	{Path: "/register/ngo"},
	{Path: "/register/admin"},
	{Path: "/products"},
	{Path: "/products/:productId"},
	{Path: "/become-seller"},
	{Path: "/categories"},
	{Path: "/ngos/:id/products"},
	{Path: "/ngos"},
	{Path: "/donate"},
	{Path: "/about-us"},
	{Path: "/forgot-password"},
	{Path: "/reset-password"},
	{Path: "/search"},

	{Path: "/dashboard/admin", Roles: adminOnly},
	{Path: "/dashboard/admin/ngos", Roles: adminOnly},
	{Path: "/dashboard/admin/users", Roles: adminOnly},
	{Path: "/dashboard/admin/orders", Roles: adminOnly},
	{Path: "/admin/products/approve", Roles: adminOnly},
	{Path: "/admin/create-coupon", Roles: adminOnly},
	{Path: "/admin/coupons", Roles: adminOnly},
	{Path: "/admin/categories", Roles: adminOnly},
	{Path: "/admin/ngos/:id", Roles: adminOnly},
	{Path: "/admin/users/:id", Roles: adminOnly},
	{Path: "/admin/analytics", Roles: adminOnly},
	{Path: "/admin/sales", Roles: adminOnly},
	{Path: "/admin/payouts", Roles: adminOnly},
	{Path: "/admin/payouts/pending", Roles: adminOnly},

	{Path: "/dashboard/ngo", Roles: ngoOnly},
	{Path: "/ngo/products/add", Roles: ngoOnly},
	{Path: "/ngo/products/manage", Roles: ngoOnly},
	{Path: "/dashboard/ngo/orders", Roles: ngoOnly},
	{Path: "/ngo/categories", Roles: ngoOnly},
	{Path: "/ngo/analytics", Roles: ngoOnly},
	{Path: "/ngo/sales", Roles: ngoOnly},
	{Path: "/ngo/payouts", Roles: ngoOnly},

	{Path: "/dashboard/user", Roles: userOnly},
	{Path: "/user/orders", Roles: userOnly},
	{Path: "/cart", Roles: userOnly},
	{Path: "/checkout", Roles: userOnly},
	{Path: "/payment-options/:orderId", Roles: userOnly},
	{Path: "/order-success", Roles: userOnly},
	{Path: "/order-details/:orderId", Roles: userOnly},
	{Path: "/wishlist", Roles: userOnly},
	{Path: "/addresses", Roles: userOnly},

	{Path: "/user/profile", Roles: signedIn},
}

// Lookup finds the page route matching path. ":name" segments match any
// single non-empty segment.
func Lookup(path string) (Route, bool) {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	for _, r := range Pages {
		if match(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

func match(pattern, path string) bool {
	if pattern == path {
		return true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i, p := range ps {
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return true
}
