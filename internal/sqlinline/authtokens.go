package sqlinline

const QListAuthTokens = `--sql 1c467f7e-e523-4140-8393-1bbda3f7e39e
select id::text, token, refresh_token, valid, expires_in
from accounttokens
order by id;
`

const QUpdateAuthToken = `--sql c7c0b9aa-4be5-4ab6-8d79-a1c6b0d3d1f7
update accounttokens
set token = $2::text,
    refresh_token = $3::text,
    expires_in = $4::bigint
where id = $1::uuid;
`
