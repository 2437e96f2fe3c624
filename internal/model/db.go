package model

// All lists every table owned by the service, in migration order.
func All() []interface{} {
	return []interface{}{
		&College{},
		&Program{},
		&Category{},
		&Shop{},
		&Officer{},
		&Merchandise{},
		&MerchandisePicture{},
		&Variant{},
		&Size{},
		&MerchandiseCategory{},
		&CartOrder{},
		&OrderStatus{},
		&Order{},
		&Payment{},
		&OrderFlag{},
		&Profile{},
		&MembershipRequest{},
	}
}
