package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicatePublicUUID(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "公开 UUID 唯一索引冲突",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'a1b2c3d4' for key 'tests.idx_tests_public_uuid'",
			},
			want: true,
		},
		{
			name: "包装后的冲突错误",
			err: fmt.Errorf("create test: %w", &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'a1b2c3d4' for key 'tests.idx_tests_public_uuid'",
			}),
			want: true,
		},
		{
			name: "其他唯一索引冲突不重试",
			err: &mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'a@b.com' for key 'users.idx_users_email'",
			},
			want: false,
		},
		{
			name: "非冲突的 MySQL 错误",
			err: &mysql.MySQLError{
				Number:  1146,
				Message: "Table 'testit.tests' doesn't exist",
			},
			want: false,
		},
		{
			name: "普通错误",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicatePublicUUID(tt.err); got != tt.want {
				t.Errorf("isDuplicatePublicUUID() = %v, want %v", got, tt.want)
			}
		})
	}
}
