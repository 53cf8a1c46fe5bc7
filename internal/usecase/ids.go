package usecase

import "github.com/google/uuid"

// idカラムはuuid型なので、UUIDとして読めないIDは「存在しない」扱いにする。
// 読めたら正規形（小文字・ハイフン区切り）で返す。
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
