package test

import (
	"github.com/wardbook/records/test"
	"github.com/wardbook/records/users"
)

var positions = []string{"Nurse", "Registrar", "Consultant", "Ward Clerk", "Pharmacist"}

func RandomUser() *users.User {
	return &users.User{
		Username:     test.Faker.Internet().User() + "." + test.Faker.UUID().V4()[:8],
		PasswordHash: test.Faker.Hash().SHA256(),
		FullName:     test.Faker.Person().Name(),
		Position:     test.RandomElement(positions),
		Status:       test.Faker.RandomStringElement([]string{users.StatusPending, users.StatusApproved, users.StatusRejected}),
	}
}

func RandomUserWithId() *users.User {
	user := RandomUser()
	user.Id = test.RandomObjectId()
	return user
}
