package users_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wardbook/records/users"
)

var _ = Describe("RoleResolver", func() {
	resolver := users.NewRoleResolver(" Chief Administrator ")

	It("trims the configured admin position", func() {
		Expect(resolver.AdminPosition()).To(Equal("Chief Administrator"))
	})

	It("grants the admin role for the configured position only", func() {
		Expect(resolver.RoleOf(&users.User{Position: "Chief Administrator"})).To(Equal(users.RoleAdmin))
		Expect(resolver.RoleOf(&users.User{Position: "Nurse"})).To(Equal(users.RoleStaff))
		Expect(resolver.RoleOf(nil)).To(Equal(users.RoleStaff))
	})

	It("never grants the admin role without a configured position", func() {
		Expect(users.NewRoleResolver("").RoleOf(&users.User{Position: ""})).To(Equal(users.RoleStaff))
	})
})
