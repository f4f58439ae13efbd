package state

import (
	"fmt"

	"go-storefront/models"
)

func unknown(slice string, a Action) string {
	return fmt.Sprintf("state: %s reducer got unknown action %T", slice, a)
}

// Reduce returns the state after applying a. Only the slice a belongs to
// changes. An action outside the closed set panics.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case UserSigninAction:
		s.UserSignin = reduceUserSignin(s.UserSignin, a)
	case UserRegisterAction:
		s.UserRegister = reduceUserRegister(s.UserRegister, a)
	case CartAction:
		s.Cart = reduceCart(s.Cart, a)
	case OrderCreateAction:
		s.OrderCreate = reduceOrderCreate(s.OrderCreate, a)
	case OrderDetailsAction:
		s.OrderDetails = reduceOrderDetails(s.OrderDetails, a)
	case OrderPayAction:
		s.OrderPay = reduceOrderPay(s.OrderPay, a)
	case OrderMineListAction:
		s.OrderMineList = reduceOrderMineList(s.OrderMineList, a)
	default:
		panic(unknown("root", a))
	}
	return s
}

func reduceUserSignin(_ UserSignin, a UserSigninAction) UserSignin {
	switch a := a.(type) {
	case UserSigninRequest:
		return UserSignin{Loading: true}
	case UserSigninSuccess:
		return UserSignin{UserInfo: a.UserInfo}
	case UserSigninFail:
		return UserSignin{Error: a.Error}
	case UserSignout:
		return UserSignin{}
	default:
		panic(unknown("userSignin", a))
	}
}

func reduceUserRegister(_ UserRegister, a UserRegisterAction) UserRegister {
	switch a := a.(type) {
	case UserRegisterRequest:
		return UserRegister{Loading: true}
	case UserRegisterSuccess:
		return UserRegister{UserInfo: a.UserInfo}
	case UserRegisterFail:
		return UserRegister{Error: a.Error}
	default:
		panic(unknown("userRegister", a))
	}
}

func reduceCart(s Cart, a CartAction) Cart {
	switch a := a.(type) {
	case CartAddItem:
		items := make([]models.CartItem, 0, len(s.CartItems)+1)
		replaced := false
		for _, it := range s.CartItems {
			if it.Product == a.Item.Product {
				it = a.Item
				replaced = true
			}
			items = append(items, it)
		}
		if !replaced {
			items = append(items, a.Item)
		}
		s.CartItems = items
		s.Error = ""
	case CartAddItemFail:
		s.Error = a.Error
	case CartRemoveItem:
		items := make([]models.CartItem, 0, len(s.CartItems))
		for _, it := range s.CartItems {
			if it.Product != a.ProductID {
				items = append(items, it)
			}
		}
		s.CartItems = items
	case CartSaveShippingAddress:
		s.ShippingAddress = a.Address
	case CartSavePaymentMethod:
		s.PaymentMethod = a.Method
	case CartEmpty:
		s.CartItems = []models.CartItem{}
	default:
		panic(unknown("cart", a))
	}
	return s
}

func reduceOrderCreate(_ OrderCreate, a OrderCreateAction) OrderCreate {
	switch a := a.(type) {
	case OrderCreateRequest:
		return OrderCreate{Loading: true}
	case OrderCreateSuccess:
		return OrderCreate{Success: true, Order: a.Order}
	case OrderCreateFail:
		return OrderCreate{Error: a.Error}
	case OrderCreateReset:
		return OrderCreate{}
	default:
		panic(unknown("orderCreate", a))
	}
}

func reduceOrderDetails(s OrderDetails, a OrderDetailsAction) OrderDetails {
	switch a := a.(type) {
	case OrderDetailsRequest:
		return OrderDetails{Loading: true, RequestedID: a.ID}
	case OrderDetailsSuccess:
		if s.RequestedID != "" && a.ID != s.RequestedID {
			return s
		}
		return OrderDetails{Order: a.Order, RequestedID: a.ID}
	case OrderDetailsFail:
		if s.RequestedID != "" && a.ID != s.RequestedID {
			return s
		}
		return OrderDetails{Error: a.Error, RequestedID: a.ID}
	default:
		panic(unknown("orderDetails", a))
	}
}

func reduceOrderPay(_ OrderPay, a OrderPayAction) OrderPay {
	switch a := a.(type) {
	case OrderPayRequest:
		return OrderPay{Loading: true}
	case OrderPaySuccess:
		return OrderPay{Success: true}
	case OrderPayFail:
		return OrderPay{Error: a.Error}
	case OrderPayReset:
		return OrderPay{}
	default:
		panic(unknown("orderPay", a))
	}
}

func reduceOrderMineList(_ OrderMineList, a OrderMineListAction) OrderMineList {
	switch a := a.(type) {
	case OrderMineListRequest:
		return OrderMineList{Loading: true}
	case OrderMineListSuccess:
		return OrderMineList{Orders: a.Orders}
	case OrderMineListFail:
		return OrderMineList{Error: a.Error}
	default:
		panic(unknown("orderMineList", a))
	}
}
