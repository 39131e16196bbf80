package rbac

import (
	"sort"
	"strings"
)

// PermissionKey names a navigable screen or a guarded action.
type PermissionKey string

// Screens and actions known to the OMS.
const (
	PermDashboard PermissionKey = "DASHBOARD"
	PermProfile   PermissionKey = "PROFILE"

	PermOrders            PermissionKey = "ORDERS"
	PermOrderCreate       PermissionKey = "ORDER_CREATE"
	PermOrderEdit         PermissionKey = "ORDER_EDIT"
	PermOrderDelete       PermissionKey = "ORDER_DELETE"
	PermOrderApprove      PermissionKey = "ORDER_APPROVE"
	PermOrderStatusUpdate PermissionKey = "ORDER_STATUS_UPDATE"
	PermOrderExport       PermissionKey = "ORDER_EXPORT"

	PermCustomers      PermissionKey = "CUSTOMERS"
	PermCustomerCreate PermissionKey = "CUSTOMER_CREATE"
	PermCustomerEdit   PermissionKey = "CUSTOMER_EDIT"
	PermCustomerDelete PermissionKey = "CUSTOMER_DELETE"

	PermFitters      PermissionKey = "FITTERS"
	PermFitterCreate PermissionKey = "FITTER_CREATE"
	PermFitterEdit   PermissionKey = "FITTER_EDIT"
	PermFitterDelete PermissionKey = "FITTER_DELETE"

	PermSuppliers      PermissionKey = "SUPPLIERS"
	PermSupplierCreate PermissionKey = "SUPPLIER_CREATE"
	PermSupplierEdit   PermissionKey = "SUPPLIER_EDIT"
	PermSupplierDelete PermissionKey = "SUPPLIER_DELETE"

	PermPresets      PermissionKey = "PRESETS"
	PermPresetCreate PermissionKey = "PRESET_CREATE"
	PermPresetEdit   PermissionKey = "PRESET_EDIT"
	PermPresetDelete PermissionKey = "PRESET_DELETE"

	PermExtras      PermissionKey = "EXTRAS"
	PermExtraCreate PermissionKey = "EXTRA_CREATE"
	PermExtraEdit   PermissionKey = "EXTRA_EDIT"
	PermExtraDelete PermissionKey = "EXTRA_DELETE"

	PermSaddleStock          PermissionKey = "SADDLE_STOCK"
	PermMySaddleStock        PermissionKey = "MY_SADDLE_STOCK"
	PermAvailableSaddleStock PermissionKey = "AVAILABLE_SADDLE_STOCK"
	PermStockCreate          PermissionKey = "STOCK_CREATE"
	PermStockEdit            PermissionKey = "STOCK_EDIT"
	PermStockDelete          PermissionKey = "STOCK_DELETE"

	PermCountryManagers      PermissionKey = "COUNTRY_MANAGERS"
	PermCountryManagerCreate PermissionKey = "COUNTRY_MANAGER_CREATE"
	PermCountryManagerEdit   PermissionKey = "COUNTRY_MANAGER_EDIT"
	PermCountryManagerDelete PermissionKey = "COUNTRY_MANAGER_DELETE"
	PermWarehouses           PermissionKey = "WAREHOUSES"
	PermWarehouseManagement  PermissionKey = "WAREHOUSE_MANAGEMENT"
	PermUserManagement       PermissionKey = "USER_MANAGEMENT"
	PermAccountManagement    PermissionKey = "ACCOUNT_MANAGEMENT"
	PermReports              PermissionKey = "REPORTS"
	PermSettings             PermissionKey = "SETTINGS"
)

var (
	everyone      = []Role{RoleUser, RoleFitter, RoleSupplier, RoleAdmin, RoleSupervisor}
	staff         = []Role{RoleFitter, RoleSupplier, RoleAdmin}
	fitterAdmin   = []Role{RoleFitter, RoleAdmin}
	supplierAdmin = []Role{RoleSupplier, RoleAdmin}
	adminOnly     = []Role{RoleAdmin}
	fitterOnly    = []Role{RoleFitter}
	supervisor    = []Role{RoleSupervisor}
)

// permissionTable is read-only after package initialisation.
var permissionTable = map[PermissionKey][]Role{
	PermDashboard: {RoleUser, RoleFitter, RoleSupplier, RoleAdmin},
	PermProfile:   everyone,

	PermOrders:            staff,
	PermOrderCreate:       fitterAdmin,
	PermOrderEdit:         fitterAdmin,
	PermOrderDelete:       adminOnly,
	PermOrderApprove:      adminOnly,
	PermOrderStatusUpdate: supplierAdmin,
	PermOrderExport:       adminOnly,

	PermCustomers:      fitterAdmin,
	PermCustomerCreate: fitterAdmin,
	PermCustomerEdit:   fitterAdmin,
	PermCustomerDelete: adminOnly,

	PermFitters:      adminOnly,
	PermFitterCreate: adminOnly,
	PermFitterEdit:   adminOnly,
	PermFitterDelete: adminOnly,

	PermSuppliers:      adminOnly,
	PermSupplierCreate: adminOnly,
	PermSupplierEdit:   adminOnly,
	PermSupplierDelete: adminOnly,

	PermPresets:      fitterAdmin,
	PermPresetCreate: adminOnly,
	PermPresetEdit:   adminOnly,
	PermPresetDelete: adminOnly,

	PermExtras:      staff,
	PermExtraCreate: adminOnly,
	PermExtraEdit:   adminOnly,
	PermExtraDelete: adminOnly,

	PermSaddleStock:          adminOnly,
	PermMySaddleStock:        fitterOnly,
	PermAvailableSaddleStock: fitterOnly,
	PermStockCreate:          adminOnly,
	PermStockEdit:            adminOnly,
	PermStockDelete:          adminOnly,

	PermCountryManagers:      supervisor,
	PermCountryManagerCreate: supervisor,
	PermCountryManagerEdit:   supervisor,
	PermCountryManagerDelete: supervisor,
	PermWarehouses:           adminOnly,
	PermWarehouseManagement:  supervisor,
	PermUserManagement:       supervisor,
	PermAccountManagement:    supervisor,
	PermReports:              adminOnly,
	PermSettings:             adminOnly,
}

// Keys lists every permission key in lexical order.
func Keys() []PermissionKey {
	keys := make([]PermissionKey, 0, len(permissionTable))
	for k := range permissionTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RolesFor returns a copy of the roles listed for key, or nil if unknown.
func RolesFor(key PermissionKey) []Role {
	roles, ok := permissionTable[key]
	if !ok {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParsePermissionKey normalises s into a known key.
func ParsePermissionKey(s string) (PermissionKey, bool) {
	key := PermissionKey(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := permissionTable[key]; !ok {
		return "", false
	}
	return key, true
}
