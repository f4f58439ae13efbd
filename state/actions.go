package state

import "go-storefront/models"

// Action is a message for exactly one slice. The set of actions is closed:
// every concrete type below implements one slice interface, and reducers
// panic on anything else.
type Action interface {
	action()
}

type UserSigninAction interface {
	Action
	userSignin()
}

type UserRegisterAction interface {
	Action
	userRegister()
}

type CartAction interface {
	Action
	cart()
}

type OrderCreateAction interface {
	Action
	orderCreate()
}

type OrderDetailsAction interface {
	Action
	orderDetails()
}

type OrderPayAction interface {
	Action
	orderPay()
}

type OrderMineListAction interface {
	Action
	orderMineList()
}

// userSignin
type (
	UserSigninRequest struct{ Email string }
	UserSigninSuccess struct{ UserInfo *models.UserInfo }
	UserSigninFail    struct{ Error string }
	UserSignout       struct{}
)

// userRegister
type (
	UserRegisterRequest struct{ Email string }
	UserRegisterSuccess struct{ UserInfo *models.UserInfo }
	UserRegisterFail    struct{ Error string }
)

// cart
type (
	// CartAddItem replaces the line for the same product, or appends
	CartAddItem     struct{ Item models.CartItem }
	CartAddItemFail struct {
		ProductID string
		Error     string
	}
	CartRemoveItem          struct{ ProductID string }
	CartSaveShippingAddress struct{ Address models.ShippingAddress }
	CartSavePaymentMethod   struct{ Method string }
	CartEmpty               struct{}
)

// orderCreate
type (
	OrderCreateRequest struct{}
	OrderCreateSuccess struct{ Order *models.Order }
	OrderCreateFail    struct{ Error string }
	OrderCreateReset   struct{}
)

// orderDetails
type (
	OrderDetailsRequest struct{ ID string }
	OrderDetailsSuccess struct {
		ID    string
		Order *models.Order
	}
	OrderDetailsFail struct {
		ID    string
		Error string
	}
)

// orderPay
type (
	OrderPayRequest struct{ OrderID string }
	OrderPaySuccess struct{ Order *models.Order }
	OrderPayFail    struct{ Error string }
	OrderPayReset   struct{}
)

// orderMineList
type (
	OrderMineListRequest struct{}
	OrderMineListSuccess struct{ Orders []models.Order }
	OrderMineListFail    struct{ Error string }
)

func (UserSigninRequest) action()       {}
func (UserSigninSuccess) action()       {}
func (UserSigninFail) action()          {}
func (UserSignout) action()             {}
func (UserRegisterRequest) action()     {}
func (UserRegisterSuccess) action()     {}
func (UserRegisterFail) action()        {}
func (CartAddItem) action()             {}
func (CartAddItemFail) action()         {}
func (CartRemoveItem) action()          {}
func (CartSaveShippingAddress) action() {}
func (CartSavePaymentMethod) action()   {}
func (CartEmpty) action()               {}
func (OrderCreateRequest) action()      {}
func (OrderCreateSuccess) action()      {}
func (OrderCreateFail) action()         {}
func (OrderCreateReset) action()        {}
func (OrderDetailsRequest) action()     {}
func (OrderDetailsSuccess) action()     {}
func (OrderDetailsFail) action()        {}
func (OrderPayRequest) action()         {}
func (OrderPaySuccess) action()         {}
func (OrderPayFail) action()            {}
func (OrderPayReset) action()           {}
func (OrderMineListRequest) action()    {}
func (OrderMineListSuccess) action()    {}
func (OrderMineListFail) action()       {}

func (UserSigninRequest) userSignin() {}
func (UserSigninSuccess) userSignin() {}
func (UserSigninFail) userSignin()    {}
func (UserSignout) userSignin()       {}

func (UserRegisterRequest) userRegister() {}
func (UserRegisterSuccess) userRegister() {}
func (UserRegisterFail) userRegister()    {}

func (CartAddItem) cart()             {}
func (CartAddItemFail) cart()         {}
func (CartRemoveItem) cart()          {}
func (CartSaveShippingAddress) cart() {}
func (CartSavePaymentMethod) cart()   {}
func (CartEmpty) cart()               {}

func (OrderCreateRequest) orderCreate() {}
func (OrderCreateSuccess) orderCreate() {}
func (OrderCreateFail) orderCreate()    {}
func (OrderCreateReset) orderCreate()   {}

func (OrderDetailsRequest) orderDetails() {}
func (OrderDetailsSuccess) orderDetails() {}
func (OrderDetailsFail) orderDetails()    {}

func (OrderPayRequest) orderPay() {}
func (OrderPaySuccess) orderPay() {}
func (OrderPayFail) orderPay()    {}
func (OrderPayReset) orderPay()   {}

func (OrderMineListRequest) orderMineList() {}
func (OrderMineListSuccess) orderMineList() {}
func (OrderMineListFail) orderMineList()    {}
